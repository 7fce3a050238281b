package records

import (
	"fmt"
	"strings"
)

// SchemaError reports a raw entry that lacks expected properties or carries
// values of the wrong shape.
type SchemaError struct {
	RecordID string
	Problems []string
	Cause    error
}

func (e *SchemaError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<unknown>"
	}
	msg := fmt.Sprintf("schema error in record %s: %s", id, strings.Join(e.Problems, "; "))
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *SchemaError) Unwrap() error {
	return e.Cause
}
