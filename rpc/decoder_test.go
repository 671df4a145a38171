package rpc

import (
	"bytes"
	"io"
	"testing"

	"github.com/oasislabs/oasis-swapper/rw"
	stderr "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestJsonDecoderDecode(t *testing.T) {
	buffer := bytes.NewBufferString("{\"request_type\":\"inspect_state\",\"status\":\"accept\"}\n")
	m := make(map[string]string)

	err := JsonDecoder{}.Decode(buffer, &m)

	assert.Nil(t, err)
	assert.Equal(t, map[string]string{
		"request_type": "inspect_state",
		"status":       "accept",
	}, m)
}

func TestJsonDecoderDecodeWithLimit(t *testing.T) {
	buffer := bytes.NewBufferString("{\"request_type\":\"inspect_state\",\"status\":\"accept\"}\n")
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(buffer, &m, rw.ReadLimitProps{
		FailOnExceed: true,
		Limit:        1024,
	})

	assert.Nil(t, err)
	assert.Equal(t, "accept", m["status"])
}

func TestJsonDecoderDecodeWithLimitTooSmall(t *testing.T) {
	buffer := bytes.NewBufferString("{\"request_type\":\"inspect_state\",\"status\":\"accept\"}\n")
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(buffer, &m, rw.ReadLimitProps{
		FailOnExceed: false,
		Limit:        10,
	})

	assert.Equal(t, io.ErrUnexpectedEOF, stderr.Cause(err))
}

func TestJsonDecoderDecodeWithLimitTooMuchData(t *testing.T) {
	buffer := bytes.NewBufferString("{\"request_type\":\"inspect_state\",\"status\":\"accept\"}\n")
	m := make(map[string]string)

	err := JsonDecoder{}.DecodeWithLimit(buffer, &m, rw.ReadLimitProps{
		FailOnExceed: true,
		Limit:        10,
	})

	assert.Equal(t, rw.ErrLimitExceeded, stderr.Cause(err))
}
