package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("contact not found")
	ErrIO         = errors.New("image io failed")
)

// ValidationError lists the required fields that were missing or blank.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required fields cannot be empty: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError is returned when an operation references an ID the store does not hold.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return "no contacts stored"
	}
	return fmt.Sprintf("contact not found: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IOError wraps a filesystem or codec failure while importing or reclaiming an image.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
