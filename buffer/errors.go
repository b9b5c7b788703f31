package buffer

import "fmt"

// OutOfRangeError reports a precondition violation: the caller asked to
// insert at an offset past the end of a non-empty document.
type OutOfRangeError struct {
	Offset int
	DocLen int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("buffer: insert offset %d exceeds document length %d", e.Offset, e.DocLen)
}
