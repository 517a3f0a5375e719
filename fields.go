package dvcodec

import "strings"

// Default field names.
const (
	DefaultDiscriminatorField = "type"
	DefaultPayloadField       = "value"
)

// quote is the reserved byte delimiting the discriminator of a binary frame.
const quote = '"'

// Fields names the discriminator and payload fields of a discriminated
// value when it is reflected into a JSON object, a map or a struct.
type Fields struct {
	Discriminator string
	Payload       string
}

// DefaultFields returns the "type"/"value" field configuration.
func DefaultFields() Fields {
	return Fields{
		Discriminator: DefaultDiscriminatorField,
		Payload:       DefaultPayloadField,
	}
}

// Validate checks that both names are set, distinct and free of '"'.
func (f Fields) Validate() error {
	switch {
	case f.Discriminator == "":
		return &InvalidFieldsError{Fields: f, Reason: "discriminator field name is required"}
	case f.Payload == "":
		return &InvalidFieldsError{Fields: f, Reason: "payload field name is required"}
	case f.Discriminator == f.Payload:
		return &InvalidFieldsError{Fields: f, Reason: "field names must differ"}
	case strings.IndexByte(f.Discriminator, quote) >= 0, strings.IndexByte(f.Payload, quote) >= 0:
		return &InvalidFieldsError{Fields: f, Reason: "field names must not contain '\"'"}
	}
	return nil
}

func (f Fields) String() string {
	return f.Discriminator + "/" + f.Payload
}
