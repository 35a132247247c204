package emotext

import "errors"

var (
	// ErrInvalidInput is returned when the document text is empty.
	ErrInvalidInput = errors.New("no text provided for analysis")

	// ErrClassifierTraining is returned when the lexicon corpus cannot be
	// loaded or the classifier cannot be fitted. It indicates a deployment
	// problem rather than a bad request.
	ErrClassifierTraining = errors.New("classifier training failed")

	// ErrRender is returned when a chart cannot be rendered or written.
	ErrRender = errors.New("chart rendering failed")
)
