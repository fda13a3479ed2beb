package analysis

import "errors"

// Data-shape errors. None of them are retryable: the caller should report the
// analysis as unavailable rather than render partial output.
var (
	// ErrEmptyDataset means no player passed the minimum games-played filter.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrInsufficientData means fewer than two rows reached PCA, so the
	// covariance matrix is undefined.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidComponentCount means more components were requested than
	// there are features.
	ErrInvalidComponentCount = errors.New("invalid component count")
	// ErrInsufficientPoints means there are fewer points than clusters.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrUnknownFeature means a configured feature name is not recognised.
	ErrUnknownFeature = errors.New("unknown feature")
)

// IsDataError reports whether err is one of the data-shape errors above.
func IsDataError(err error) bool {
	return errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidComponentCount) ||
		errors.Is(err, ErrInsufficientPoints)
}
