package registry

import "errors"

var (
	// ErrUnknownDiscriminator is returned when a frame or value carries a
	// discriminator that has not been registered.
	ErrUnknownDiscriminator = errors.New("unknown discriminator")

	// ErrAlreadyRegistered is returned when a discriminator or type is
	// registered twice.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrTypeMismatch is returned when a value's type differs from the type
	// registered for its discriminator.
	ErrTypeMismatch = errors.New("value type does not match registered type")

	// ErrPayloadKind is returned when a frame's wire form does not match the
	// payload codec registered for its discriminator.
	ErrPayloadKind = errors.New("frame kind does not match payload codec")

	// ErrEncodeFailure wraps payload codec encode errors.
	ErrEncodeFailure = errors.New("failed to encode payload")

	// ErrDecodeFailure wraps payload codec decode errors.
	ErrDecodeFailure = errors.New("failed to decode payload")
)
