// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"errors"

	"github.com/pdiddy/artifact-finder/internal/catalog"
	"github.com/pdiddy/artifact-finder/pkg/types"
)

// Kind is the terminal result of one search task.
type Kind int

const (
	NotFound Kind = iota
	Found
	Failed
)

func (k Kind) String() string {
	switch k {
	case Found:
		return "found"
	case Failed:
		return "failed"
	default:
		return "not_found"
	}
}

// ErrorKind classifies a failed fetch.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	// ErrTransport covers connectivity problems and timeouts.
	ErrTransport
	// ErrRemote covers non-success answers and unusable bodies.
	ErrRemote
	// ErrOther covers errors from fetchers that are not catalog errors.
	ErrOther
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "transport"
	case ErrRemote:
		return "remote"
	case ErrOther:
		return "other"
	default:
		return "none"
	}
}

// Outcome is what one search task reports for its collection.
type Outcome struct {
	Kind       Kind
	Collection types.CollectionRef
	Record     types.Record
	Err        error
	ErrKind    ErrorKind

	// Skipped is set when the task never fetched: the search was already
	// over when it was dequeued or admitted.
	Skipped bool
	// Cancelled is set when the fetch ended because the search was
	// cancelled. Such a task counts as neither searched nor failed.
	Cancelled bool
}

// Searched reports whether the collection was actually fetched and scanned.
func (o Outcome) Searched() bool {
	return (o.Kind == Found || o.Kind == NotFound) && !o.Skipped && !o.Cancelled
}

func classify(err error) ErrorKind {
	var te *catalog.TransportError
	var re *catalog.RemoteError
	switch {
	case err == nil:
		return ErrNone
	case errors.As(err, &re):
		return ErrRemote
	case errors.As(err, &te), errors.Is(err, context.DeadlineExceeded):
		return ErrTransport
	default:
		return ErrOther
	}
}
