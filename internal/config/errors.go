package config

import "fmt"

// Error reports an invalid or missing setting. It is fatal at startup.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
