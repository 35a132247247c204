package emotext

import (
	"context"
	"errors"
	"testing"
)

func TestCrossValidate(t *testing.T) {
	corpus, err := LoadCorpus(Portuguese)
	if err != nil {
		t.Fatal(err)
	}

	result, err := CrossValidate(context.Background(), corpus, 3)
	if err != nil {
		t.Fatalf("CrossValidate: %v", err)
	}
	if len(result.FoldResults) != 3 {
		t.Fatalf("Expected 3 folds, got %d", len(result.FoldResults))
	}

	total := 0
	for _, fold := range result.FoldResults {
		total += fold.Size
		if fold.Accuracy < 0 || fold.Accuracy > 1 {
			t.Errorf("Fold %d accuracy out of range: %f", fold.Fold, fold.Accuracy)
		}
	}
	if total != corpus.Len() {
		t.Errorf("Folds cover %d examples, corpus has %d", total, corpus.Len())
	}
	if result.MeanAccuracy <= 1.0/NumEmotions {
		t.Errorf("Expected better than chance accuracy, got %.2f", result.MeanAccuracy)
	}

	again, err := CrossValidate(context.Background(), corpus, 3)
	if err != nil {
		t.Fatal(err)
	}
	if again.MeanAccuracy != result.MeanAccuracy {
		t.Errorf("Cross-validation is not deterministic: %f vs %f", again.MeanAccuracy, result.MeanAccuracy)
	}
}

func TestCrossValidateErrors(t *testing.T) {
	corpus, err := LoadCorpus(Portuguese)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := CrossValidate(context.Background(), corpus, 1); err == nil {
		t.Error("Expected an error for a single fold")
	}
	if _, err := CrossValidate(context.Background(), corpus, corpus.Len()+1); err == nil {
		t.Error("Expected an error for more folds than examples")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CrossValidate(ctx, corpus, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
