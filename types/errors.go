package types

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is reported by a handler given a Mail variant it cannot process.
	ErrTypeMismatch   = errors.New("mail type mismatch")
	// ErrStolenPackage is reported when a parcel's content has been substituted.
	ErrStolenPackage  = errors.New("stolen package")
	// ErrIllegalPackage is reported when a parcel carries forbidden content.
	ErrIllegalPackage = errors.New("illegal package")
)

// TypeMismatchError reports the Mail variant a handler wanted and the one it got.
type TypeMismatchError struct {
	Handler string
	Want    Kind
	Got     Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: want %s, got %s", e.Handler, ErrTypeMismatch, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

// RejectionError carries the Mail an interceptor refused along with the
// kind of the rejection, which is available through errors.Is.
type RejectionError struct {
	Handler string
	Mail    Mail
	Reason  string
	Err     error
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Handler, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Handler, e.Err, e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// RejectionKind returns the sentinel that classifies err, or nil when err is
// not one of the rejection kinds.
func RejectionKind(err error) error {
	for _, kind := range []error{ErrTypeMismatch, ErrStolenPackage, ErrIllegalPackage} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
