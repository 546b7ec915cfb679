package resume

import "fmt"

// EditError reports an edit operation that could not be applied
type EditError struct {
	Index   int // Position of the operation in the batch
	Message string
	Cause   error
}

func (e *EditError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume edit %d: %s: %v", e.Index, e.Message, e.Cause)
	}
	return fmt.Sprintf("resume edit %d: %s", e.Index, e.Message)
}

func (e *EditError) Unwrap() error {
	return e.Cause
}
