package metrics

import "errors"

// ErrInvalidK is returned by SelectKBestWeighted when k is out of range.
var ErrInvalidK = errors.New("metrics: k must be in [0, n_features]")
