package dvcodec

import (
	"errors"
	"fmt"
)

// Codec sentinel errors.
// Use errors.Is() to check for these errors; the concrete error types below
// carry the reason and match their sentinel.
//
// Errors produced by encoding/json (malformed JSON text on decode, an
// unsupported payload on encode) are returned as-is and never match these.
var (
	// ErrInvalidDiscriminator is returned by encode when the discriminator
	// is empty or contains the reserved quote character.
	ErrInvalidDiscriminator = errors.New("invalid discriminator")

	// ErrMalformedFrame is returned by decode when the input is not a
	// well-formed frame.
	ErrMalformedFrame = errors.New("malformed frame")

	// ErrInvalidFields is returned when a field configuration cannot be used.
	ErrInvalidFields = errors.New("invalid field configuration")
)

// Reasons carried by InvalidDiscriminatorError.
const (
	ReasonDiscriminatorRequired = "type field is required"
	ReasonQuoteNotAllowed       = "character '\"' not allowed in discriminator"
)

// Reasons carried by MalformedFrameError.
const (
	ReasonInvalidLength             = "invalid length"
	ReasonInvalidDiscriminator      = "invalid discriminator"
	ReasonInvalidStartingCharacter  = "invalid starting character"
	ReasonInvalidEmptyDiscriminator = "invalid empty discriminator"
)

// InvalidDiscriminatorError indicates a value could not be encoded because
// of its discriminator.
type InvalidDiscriminatorError struct {
	Discriminator string
	Reason        string
}

func (e *InvalidDiscriminatorError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidDiscriminator, e.Reason)
}

// Is reports whether target is ErrInvalidDiscriminator.
func (e *InvalidDiscriminatorError) Is(target error) bool {
	return target == ErrInvalidDiscriminator
}

// MalformedFrameError indicates the decoder rejected its input.
type MalformedFrameError struct {
	Reason string
	// Size is the length of the rejected input.
	Size int
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedFrame, e.Reason)
}

// Is reports whether target is ErrMalformedFrame.
func (e *MalformedFrameError) Is(target error) bool {
	return target == ErrMalformedFrame
}

// InvalidFieldsError indicates a Fields value failed validation.
type InvalidFieldsError struct {
	Fields Fields
	Reason string
}

func (e *InvalidFieldsError) Error() string {
	return fmt.Sprintf("%s %q/%q: %s", ErrInvalidFields, e.Fields.Discriminator, e.Fields.Payload, e.Reason)
}

// Is reports whether target is ErrInvalidFields.
func (e *InvalidFieldsError) Is(target error) bool {
	return target == ErrInvalidFields
}

// FieldTypeError indicates a record field has a Go type the codec cannot
// read from or write to.
type FieldTypeError struct {
	Field string
	Want  string
	Got   string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %s", e.Field, e.Want, e.Got)
}

// IsInvalidDiscriminator checks if an error indicates a rejected discriminator.
func IsInvalidDiscriminator(err error) bool {
	var discErr *InvalidDiscriminatorError
	return errors.As(err, &discErr)
}

// IsMalformedFrame checks if an error indicates malformed decoder input.
func IsMalformedFrame(err error) bool {
	var frameErr *MalformedFrameError
	return errors.As(err, &frameErr)
}

// MalformedReason returns the reason of a MalformedFrameError in err's
// chain, or "" if there is none.
func MalformedReason(err error) string {
	var frameErr *MalformedFrameError
	if errors.As(err, &frameErr) {
		return frameErr.Reason
	}
	return ""
}
