package errors

import (
	"fmt"

	"github.com/oasislabs/oasis-swapper/log"
	stderr "github.com/pkg/errors"
)

type Err interface {
	Error() string
	log.Loggable
}

var (
	ErrInternalError = ErrorCode{
		category: InternalError,
		code:     1000,
		desc:     "Internal Error. Please check the status of the service.",
	}

	ErrUnknownRequestKind = ErrorCode{
		category: InternalError,
		code:     1001,
		desc:     "No handler registered for the request type.",
	}

	ErrRollupRequest = ErrorCode{
		category: InternalError,
		code:     1002,
		desc:     "Failed to send request to the rollup http server.",
	}

	ErrRollupResponse = ErrorCode{
		category: InternalError,
		code:     1003,
		desc:     "Unexpected response from the rollup http server.",
	}

	ErrPublishOutput = ErrorCode{
		category: InternalError,
		code:     1004,
		desc:     "Failed to publish output to the rollup http server.",
	}

	ErrEncodeVoucher = ErrorCode{
		category: InternalError,
		code:     1005,
		desc:     "Failed to encode voucher payload.",
	}

	ErrPrometheusPush = ErrorCode{
		category: InternalError,
		code:     1006,
		desc:     "Failed to push metrics to prometheus.",
	}

	ErrUntrustedSender = ErrorCode{
		category: InputError,
		code:     2001,
		desc:     "Input does not come from the Portal.",
	}

	ErrInvalidHeader = ErrorCode{
		category: InputError,
		code:     2002,
		desc:     "Input header is not from an ERC20 transfer.",
	}

	ErrMalformedPayload = ErrorCode{
		category: InputError,
		code:     2003,
		desc:     "Input payload could not be decoded.",
	}
)

// Category defines error categories that logically group them. This classification
// may be useful when mapping error categories together to a specific outcome,
// as it is done when mapping input errors to a rejected input
type Category string

const (
	// InternalError refers to errors related to
	// programming errors or other unexpected errors in the normal
	// execution of an action, such as failing to reach the rollup
	// http server. These are not caused by the input being processed
	InternalError Category = "InternalError"

	// InputError refers to errors that are returned because the input
	// provided to execute an action is incorrect, malformed or could
	// not be parsed. The input is rejected and processing continues
	InputError Category = "InputError"
)

// Error is the implementation of an error for this package. It contains
// an instance of an ErrorCode which provides information about the error
// and a cause which might be nil if there's no underlying cause for
// the error
type Error struct {
	Cause     error
	ErrorCode ErrorCode
}

// Error is the implementation of error for Error
func (e Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.ErrorCode.Code(), e.ErrorCode.Desc())
	}

	return fmt.Sprintf("[%d] %s: %s", e.ErrorCode.Code(), e.ErrorCode.Desc(), e.Cause.Error())
}

// Unwrap returns the underlying cause
func (e Error) Unwrap() error {
	return e.Cause
}

// Log implementation of log.Loggable
func (e Error) Log(fields log.Fields) {
	fields.Add("err", e.ErrorCode.Desc())
	fields.Add("errorCode", e.ErrorCode.Code())
	fields.Add("errorCategory", string(e.ErrorCode.Category()))

	if e.Cause != nil {
		fields.Add("cause", e.Cause.Error())
	}
}

// New creates a new instance of an error
func New(errorCode ErrorCode, cause error) Error {
	return Error{Cause: cause, ErrorCode: errorCode}
}

// CodeOf returns the ErrorCode of the first Error found in the
// chain of wrapped errors
func CodeOf(err error) (ErrorCode, bool) {
	var e Error
	if !stderr.As(err, &e) {
		return ErrorCode{}, false
	}

	return e.ErrorCode, true
}

// Is returns true if err, or any error it wraps, carries
// the provided ErrorCode
func Is(err error, errorCode ErrorCode) bool {
	code, ok := CodeOf(err)
	return ok && code == errorCode
}

// ErrorCode holds the necessary information to uniquely identify an error
// and make sure that a valuable report is returned
// in case of encountering an error
type ErrorCode struct {
	// category is the type of the error
	category Category

	// code is a unique identifier for the error that can be used to identify
	// the particular type of error encountered
	code int

	// desc is a human readable description of the error that occurred
	// to aid the client in debugging
	desc string
}

// Category getter for category
func (e ErrorCode) Category() Category {
	return e.category
}

// Code getter for code
func (e ErrorCode) Code() int {
	return e.code
}

// Desc getter for desc
func (e ErrorCode) Desc() string {
	return e.desc
}
