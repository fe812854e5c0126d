package confload

import "fmt"

// FetchError reports a non-2xx response from the definition endpoint.
type FetchError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("confload: fetch %s: unexpected status %s", e.URL, e.Status)
}

// ShapeError reports a response body that is not a definition envelope.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "confload: malformed definition payload: " + e.Reason
}
