package storage

import "github.com/pkg/errors"

// ErrNotFound is returned for unknown or expired handles.
var ErrNotFound = errors.New("file not found or has expired")

// Artifact is a rendered report waiting to be downloaded.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ResultStore keeps rendered reports for a limited time under an opaque
// handle.
type ResultStore interface {
	Put(a Artifact) (string, error) // returns the handle
	Get(handle string) (Artifact, error)
}
