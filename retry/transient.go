package retry

import (
	"github.com/cockroachdb/errors"
	"github.com/tebeka/selenium"
)

// ErrAssertion marks a check on page state that did not hold yet.
var ErrAssertion = errors.New("assertion failed")

// ErrStaleElement marks a failure caused by an element handle that the page
// replaced underneath the caller.
var ErrStaleElement = errors.New("stale element reference")

// staleElementCode is the W3C WebDriver error code for a stale element.
const staleElementCode = "stale element reference"

// Assertf returns a new error marked as a failed assertion.
func Assertf(format string, args ...interface{}) error {
	return errors.Mark(errors.NewWithDepthf(1, format, args...), ErrAssertion)
}

// MarkAssertion marks err as a failed assertion. A nil err stays nil.
func MarkAssertion(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrAssertion)
}

// MarkStale marks err as a stale element failure. A nil err stays nil.
func MarkStale(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrStaleElement)
}

// IsTransient returns whether err may go away if the operation is retried.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAssertion) || errors.Is(err, ErrStaleElement) {
		return true
	}
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		return wdErr.Err == staleElementCode
	}
	return false
}
