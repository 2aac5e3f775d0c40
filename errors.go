package jsonhttp

import "errors"

// ErrNotAcceptable reports a failed charset negotiation: the request's
// Accept-Charset named no charset this process can encode. The pipelines
// treat this as a configuration defect rather than a client error. Handle
// returns it without writing a status, and the transport decides what a
// defective negotiation setup should look like on the wire.
var ErrNotAcceptable = errors.New("not acceptable")
