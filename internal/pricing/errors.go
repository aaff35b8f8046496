package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the single failure category of the pricing core.
// Every rejected parameter wraps it, so callers can branch with errors.Is
// without string matching. There is nothing transient to retry: a failed
// call returns no result at all.
var ErrInvalidArgument = errors.New("invalid argument")

// invalidf wraps ErrInvalidArgument with a reason naming the violated
// quantity (e.g. "spot price must be positive").
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
