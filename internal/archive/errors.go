package archive

import "errors"

// ErrUpstream is returned when the archive compute service is unreachable or
// responds with an error status. Callers surface it as a retriable external
// service failure, never as a crash.
var ErrUpstream = errors.New("archive service error")
