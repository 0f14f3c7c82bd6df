package services

import "errors"

// ErrNotFound is returned when an entity ID cannot be found in the store.
var ErrNotFound = errors.New("not found")

// ErrInvalidStatus is returned when a status transition names an unknown
// status value.
var ErrInvalidStatus = errors.New("invalid status")

// ErrNoCandidates is returned when assignment cannot suggest anyone, e.g.
// no available member shares a required skill.
var ErrNoCandidates = errors.New("no suitable candidates")
