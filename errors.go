package mediancut

import "errors"

// ErrInvalidInput is returned for malformed pixel buffers, non-positive
// dimensions, or a target palette size below one. No partial result is
// produced when it is returned.
var ErrInvalidInput = errors.New("invalid input")
