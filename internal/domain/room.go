package domain

// RoomID is a client-supplied key, unvalidated and case-sensitive.
// The empty string is a valid room distinct from any other.
type RoomID string
