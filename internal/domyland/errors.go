package domyland

import "fmt"

// UpstreamError reports a non-2xx response from the Domyland API,
// retaining the upstream status and body for diagnostics.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("domyland %s: status %d: %s", e.Op, e.Status, e.Body)
}
