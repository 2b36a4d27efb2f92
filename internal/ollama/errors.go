package ollama

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSpawnFailed is matched by every SpawnError.
var ErrSpawnFailed = errors.New("process spawn failed")

// HTTPError reports a transport failure or a non-success status from the
// model server.
type HTTPError struct {
	Op         string // "list", "pull", "delete", "generate"
	URL        string
	StatusCode int    // 0 for transport failures, including reads after the headers
	Body       string // server error message, if any
	Err        error
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	b.WriteString("http error: ")
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Body != "" {
		b.WriteString(": ")
		b.WriteString(e.Body)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// SpawnError reports that the server process could not be launched.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSpawnFailed, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

func (e *SpawnError) Is(target error) bool {
	return target == ErrSpawnFailed
}
