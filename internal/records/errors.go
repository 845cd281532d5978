package records

import "errors"

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsOwnership reports whether err is an ownership violation.
func IsOwnership(err error) bool {
	return errors.Is(err, ErrOwnership)
}
