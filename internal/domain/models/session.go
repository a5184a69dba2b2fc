package models

// Session is an opaque session key issued by the remote service.
// The zero value means "no session".
type Session string

// Valid reports whether the session key is set.
func (s Session) Valid() bool { return s != "" }

// Sessions holds the two chained session keys of a run: the IRESS identity
// session (outer) and the IOS+ service session (inner).
type Sessions struct {
	Outer Session
	Inner Session
}
