package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidState marks a patient or engine state outside the modeled
// transition table. It always indicates a bug in the engine or in a caller
// that mutated patients mid-run; it is never an expected outcome.
var ErrInvalidState = errors.New("invalid state")

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
