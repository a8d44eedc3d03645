package featureselect

import "github.com/pkg/errors"

// ErrInvalidArgument signals a bad selector parameter (an out-of-range
// threshold, for instance).
var ErrInvalidArgument = errors.New("featureselect: invalid argument")

// ErrRuntimeError signals a selector method called before Fit.
var ErrRuntimeError = errors.New("featureselect: runtime error")
