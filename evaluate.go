package emotext

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// ValidationResult contains the metrics of one held-out fold.
type ValidationResult struct {
	Fold     int
	Size     int
	Correct  int
	Accuracy float64
}

// CrossValidationResult contains results from cross-validation
type CrossValidationResult struct {
	MeanAccuracy float64
	StdAccuracy  float64
	FoldResults  []ValidationResult
}

// CrossValidate estimates how well the corpus generalises by training on
// k-1 folds and scoring the held-out one. Example i goes to fold i mod k, so
// the result is deterministic. The analysis path never calls this; it only
// reports on corpus quality.
func CrossValidate(ctx context.Context, corpus *Corpus, k int) (CrossValidationResult, error) {
	var result CrossValidationResult

	if k < 2 {
		return result, fmt.Errorf("need at least 2 folds, got %d", k)
	}
	if corpus.Len() < k {
		return result, fmt.Errorf("corpus has %d examples, fewer than %d folds", corpus.Len(), k)
	}

	examples := corpus.Examples()
	accuracies := make([]float64, 0, k)

	for fold := 0; fold < k; fold++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		train := &Corpus{Version: corpus.Version, Language: corpus.Language}
		var held []Example
		for i, ex := range examples {
			if i%k == fold {
				held = append(held, ex)
			} else {
				train.examples = append(train.examples, ex)
			}
		}

		model, err := TrainModel(train)
		if err != nil {
			return result, fmt.Errorf("fold %d: %w", fold, err)
		}

		vr := ValidationResult{Fold: fold, Size: len(held)}
		for _, ex := range held {
			if model.Classify(ex.Text).Dominant() == ex.Emotion {
				vr.Correct++
			}
		}
		vr.Accuracy = float64(vr.Correct) / float64(vr.Size)

		result.FoldResults = append(result.FoldResults, vr)
		accuracies = append(accuracies, vr.Accuracy)
	}

	result.MeanAccuracy, result.StdAccuracy = stat.MeanStdDev(accuracies, nil)
	return result, nil
}
