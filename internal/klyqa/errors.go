package klyqa

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized     = errors.New("klyqa: access token rejected")
	ErrUnexpectedStatus = errors.New("klyqa: unexpected response status")
)

// ConnectionError is returned for any network or authentication failure
// talking to the device.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("klyqa: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
