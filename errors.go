package bayesnet

import "github.com/pkg/errors"

// Error taxonomy (spec.md section 7):
//
//   ErrInvalidArgument - bad user inputs: wrong dtype, dimension mismatch,
//     unknown class name, missing state vector, a cycle-forming addEdge,
//     mutating a fitted network, an out-of-range or unknown hyperparameter,
//     an empty node name.
//   ErrLogicError - API misuse: predict/score/predict_proba before fit,
//     requesting selector output before fit.
//   ErrRuntimeError - recoverable-looking but user-caused: a
//     local-discretization classifier fed a non-floating-point dataset.
//
// Errors are never caught and converted within the core; they propagate to
// the immediate caller. Use errors.Is against these sentinels to recover
// the category.
var (
	ErrInvalidArgument = errors.New("bayesnet: invalid argument")
	ErrLogicError      = errors.New("bayesnet: logic error")
	ErrRuntimeError    = errors.New("bayesnet: runtime error")
)

// Wrapper attaches context to a sentinel error, preserving errors.Is
// matching against the sentinel while recording where it was raised.
func Wrapper(sentinel error, context string) error {
	return errors.Wrap(sentinel, context)
}

// Wrapperf is Wrapper with fmt.Sprintf-style formatting of the context.
func Wrapperf(sentinel error, format string, args ...any) error {
	return errors.Wrapf(sentinel, format, args...)
}
