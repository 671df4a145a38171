package rollup

import "fmt"

// ErrUnexpectedStatus is the cause of a failed exchange with the
// rollup http server that returned an unexpected status code
type ErrUnexpectedStatus struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("[rollup] %s returned status %d with body %q",
		e.Endpoint, e.StatusCode, e.Body)
}
