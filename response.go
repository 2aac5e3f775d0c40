package jsonhttp

// Response is the write side of one HTTP exchange. A pipeline sets the
// protocol version at most once, sets the status exactly once per outcome,
// and appends entities in order; it never reads back what it wrote.
type Response interface {
	SetProto(proto string)
	SetStatus(status Status)
	AddEntity(entity Entity)
}

// Recorder is a Response that records everything written to it, keeping
// the full status line that net/http cannot transmit. Adapter plays a
// Recorder back onto a ResponseWriter; tests assert against one directly.
type Recorder struct {
	proto    string
	status   Status
	wrote    bool
	entities []Entity
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// SetProto records the protocol version.
func (r *Recorder) SetProto(proto string) { r.proto = proto }

// SetStatus records the status line.
func (r *Recorder) SetStatus(status Status) {
	r.status = status
	r.wrote = true
}

// AddEntity appends an entity in write order.
func (r *Recorder) AddEntity(entity Entity) {
	r.entities = append(r.entities, entity)
}

// Proto returns the recorded protocol version, empty if never set.
func (r *Recorder) Proto() string { return r.proto }

// Status returns the recorded status and whether one was written.
func (r *Recorder) Status() (Status, bool) { return r.status, r.wrote }

// Entities returns the recorded entities in write order.
func (r *Recorder) Entities() []Entity { return r.entities }
