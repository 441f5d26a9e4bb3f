package stock

import (
	"errors"
	"fmt"
)

// NotFoundError reports that the upstream had no usable data for a ticker.
// Empty answers and provider faults collapse into this one condition.
type NotFoundError struct {
	Ticker string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Ticker)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ErrDegenerateModel is returned when the history holds fewer than two
// distinct dates, so no trend line can be fit.
var ErrDegenerateModel = errors.New("not enough distinct dates to fit a trend")
