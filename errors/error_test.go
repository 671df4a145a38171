package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/oasislabs/oasis-swapper/log"
	stderr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessageNoCause(t *testing.T) {
	err := New(ErrInvalidHeader, nil)
	assert.Equal(t, "[2002] Input header is not from an ERC20 transfer.", err.Error())
}

func TestErrorMessageWithCause(t *testing.T) {
	err := New(ErrUntrustedSender, stderrors.New("sender 0xbb does not match 0xaa"))
	assert.Equal(t, "[2001] Input does not come from the Portal.: sender 0xbb does not match 0xaa", err.Error())
}

func TestErrorLog(t *testing.T) {
	fields := log.MapFields{}
	err := New(ErrMalformedPayload, stderrors.New("short buffer"))

	err.Log(fieldsAdder(fields))

	assert.Equal(t, log.MapFields{
		"err":           "Input payload could not be decoded.",
		"errorCode":     2003,
		"errorCategory": "InputError",
		"cause":         "short buffer",
	}, fields)
}

func TestCodeOfWrapped(t *testing.T) {
	err := stderr.Wrap(New(ErrRollupResponse, nil), "finish")
	err = fmt.Errorf("cycle 3: %w", err)

	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrRollupResponse, code)
	assert.True(t, Is(err, ErrRollupResponse))
	assert.False(t, Is(err, ErrRollupRequest))
}

func TestCodeOfPlainError(t *testing.T) {
	_, ok := CodeOf(stderrors.New("plain"))
	assert.False(t, ok)
	assert.False(t, Is(nil, ErrInternalError))
}

func TestCategories(t *testing.T) {
	for _, code := range []ErrorCode{ErrUntrustedSender, ErrInvalidHeader, ErrMalformedPayload} {
		assert.Equal(t, InputError, code.Category())
	}

	assert.Equal(t, InternalError, ErrUnknownRequestKind.Category())
}

type fieldsAdder log.MapFields

func (f fieldsAdder) Add(key string, value interface{}) {
	f[key] = value
}
