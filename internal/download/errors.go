package download

import (
	"errors"
	"fmt"
)

// ErrNoOutput is returned when the fetch succeeded but no file carrying the
// job token was written
var ErrNoOutput = errors.New("download produced no output file")

// FetchError wraps a failure reported by the fetch backend
type FetchError struct {
	Token string
	Err   error
}

func (e *FetchError) Error() string {
	return e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// newFetchError wraps err unless it is already a FetchError
func newFetchError(token string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	if err == nil {
		err = fmt.Errorf("fetch failed without an error message")
	}
	return &FetchError{Token: token, Err: err}
}
