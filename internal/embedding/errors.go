package embedding

import "fmt"

// BatchError reports a malformed provider response.
type BatchError struct {
	Expected int
	Got      int
	Index    int
	Reason   string
}

func (e *BatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed embedding batch: %s at index %d", e.Reason, e.Index)
	}
	return fmt.Sprintf("malformed embedding batch: expected %d vectors, got %d", e.Expected, e.Got)
}
