package jsonhttp

// Test-only exports for internal constructors.
var NewHTTPRequest = newHTTPRequest
