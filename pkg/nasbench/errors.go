package nasbench

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Errors
var (
	ErrMalformedRecord  = errors.New("nasbench: malformed record")
	ErrMalformedField   = errors.New("nasbench: malformed field")
	ErrUnknownOperation = errors.New("nasbench: unknown operation")
)

const maxErrorValue = 64

// FieldError reports a payload element that could not be decoded.
type FieldError struct {
	Index int    // Position in the JSON array
	Field string // Field name
	Value string // Offending raw value, as found in the payload
	Err   error
}

func (e *FieldError) Error() string {
	value := e.Value
	if len(value) > maxErrorValue {
		cut := maxErrorValue
		for cut > 0 && !utf8.RuneStart(value[cut]) {
			cut--
		}
		value = value[:cut] + "..."
	}
	return fmt.Sprintf("nasbench: field %d (%s) value %s: %v", e.Index, e.Field, value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RecordError locates a payload failure within the stream.
type RecordError struct {
	Offset int64 // Offset of the frame holding the record
	Index  int   // Zero-based frame number
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("nasbench: record %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
