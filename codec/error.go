package codec

import "fmt"

// ErrUnknownKind is returned when building a Tuple out of a Kind
// that the codec does not support
type ErrUnknownKind struct {
	Kind Kind
}

func (e ErrUnknownKind) Error() string {
	return fmt.Sprintf("[codec] unknown kind %d", int(e.Kind))
}

// ErrDecode is returned when a byte string cannot be decoded into
// the values of a Tuple. Short buffers, offsets pointing outside the
// buffer and lengths overrunning the buffer all end up here
type ErrDecode struct {
	Cause error
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("[codec] failed to decode tuple: %s", e.Cause.Error())
}

func (e ErrDecode) Unwrap() error {
	return e.Cause
}

// ErrEncode is returned when the provided values do not match
// the Tuple they are encoded with
type ErrEncode struct {
	Cause error
}

func (e ErrEncode) Error() string {
	return fmt.Sprintf("[codec] failed to encode tuple: %s", e.Cause.Error())
}

func (e ErrEncode) Unwrap() error {
	return e.Cause
}
