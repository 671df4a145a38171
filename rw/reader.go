package rw

import (
	"errors"
	"io"
)

// ErrLimitExceeded signals that the underlying reader has more
// available bytes than the expected limit
var ErrLimitExceeded = errors.New("Read limit exceeded")

// ReadLimitProps sets up the behaviour of the limit reader
type ReadLimitProps struct {
	// FailOnExceed defines whether the LimitReader should return an
	// error if the underlying reader has more bytes than the limit
	FailOnExceed bool

	// Limit is the maximum number of bytes that can be read from the
	// reader and copied to the provided buffer
	Limit int64
}

// NewLimitReader returns a new LimitReader
func NewLimitReader(reader io.Reader, props ReadLimitProps) *LimitReader {
	readerLimit := props.Limit
	if props.FailOnExceed {
		// set io.LimitedReader's limit to props.Limit + 1 to allow it to
		// read one more byte than required. This is the only way we can verify
		// whether the reader has more data to provide than the limit
		readerLimit++
	}

	return &LimitReader{
		failOnExceed: props.FailOnExceed,
		count:        0,
		limit:        props.Limit,
		reader:       io.LimitReader(reader, readerLimit),
	}
}

// LimitReader is an io.Reader wrapper that ensures that
// no more than limit bytes are read from the reader
type LimitReader struct {
	failOnExceed bool
	count        int64
	limit        int64
	reader       io.Reader
}

// Read is the implementation of Reader for LimitReader
func (r *LimitReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.count += int64(n)
	if r.failOnExceed && r.count > r.limit {
		return 0, ErrLimitExceeded
	}

	return n, err
}

// ReadAllWithLimit reads the whole reader failing if it provides
// more than props.Limit bytes when props.FailOnExceed is set
func ReadAllWithLimit(r io.Reader, props ReadLimitProps) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	return io.ReadAll(NewLimitReader(r, props))
}
