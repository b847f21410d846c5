package unprocess

import "errors"

// The failure surface here is narrow: bad shapes, values outside a
// function's mathematical domain, and (in theory) a non-invertible
// sampled CCM. All are caller/logic defects rather than environmental
// failures, so we fail fast with a wrapped sentinel - a training
// pipeline quietly consuming NaN tensors is a far worse outcome than
// an explicit stop.
var(
	ErrShape    = errors.New("image shape incompatible")
	ErrDomain   = errors.New("value outside valid domain")
	ErrSingular = errors.New("color matrix not invertible")
)
