// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "fmt"

// TransportError reports a failure to reach the catalog or to read its
// answer: connection errors, timeouts, truncated bodies.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a response the catalog answered but that cannot be
// used: a non-success status or a body in an unexpected shape. StatusCode is
// zero for shape errors.
type RemoteError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		if e.Body != "" {
			return fmt.Sprintf("catalog %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
		}
		return fmt.Sprintf("catalog %s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s: %v", e.URL, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }
