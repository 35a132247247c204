package emotext

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

const exampleText = "A cidade está em festa. Todos comemoram com alegria.\n\nMas o trânsito irritou muitos motoristas."

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAnalyzer(t *testing.T, opts ...AnalyzerOpt) *Analyzer {
	t.Helper()
	base := []AnalyzerOpt{WithOutputDir(t.TempDir()), WithLogger(quietLogger())}
	a, err := NewAnalyzer(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	return a
}

func TestExecute(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	a := newTestAnalyzer(t, WithClock(func() time.Time { return now }))

	res, err := a.Execute(context.Background(), exampleText)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.NumParagraphs != 2 || res.NumSentences != 3 {
		t.Errorf("Expected 2 paragraphs and 3 sentences, got %d and %d", res.NumParagraphs, res.NumSentences)
	}
	if !reflect.DeepEqual(res.ParagraphEnds, []int{2, 3}) {
		t.Errorf("Unexpected paragraph ends %v", res.ParagraphEnds)
	}
	if !strings.HasPrefix(res.Timestamp, "20240305_143000_") || len(res.Timestamp) != len("20240305_143000_")+8 {
		t.Errorf("Unexpected run token %q", res.Timestamp)
	}
	if len(res.Scores) != res.NumSentences {
		t.Errorf("Expected one score row per sentence, got %d", len(res.Scores))
	}

	for i := 1; i <= 3; i++ {
		marker := `<span style="color:red;">[` + string(rune('0'+i)) + `]</span>`
		if !strings.Contains(res.HTMLFixed, marker) {
			t.Errorf("Missing marker %s", marker)
		}
	}
	if strings.Contains(res.HTMLFixed, "[4]") {
		t.Error("Unexpected fourth marker")
	}

	if len(res.Charts) != 2+2*NumEmotions {
		t.Fatalf("Expected %d charts, got %d", 2+2*NumEmotions, len(res.Charts))
	}
	for _, ref := range res.Charts {
		if !strings.Contains(ref.File, res.Timestamp) {
			t.Errorf("Chart %s does not carry the run token", ref.File)
		}
		if _, err := os.Stat(filepath.Join(a.OutputDir(), ref.File)); err != nil {
			t.Errorf("Chart %s was not written: %v", ref.File, err)
		}
		if !strings.Contains(res.HTMLDynamic, ref.File) {
			t.Errorf("Gallery does not reference %s", ref.File)
		}
	}

	refs := []struct {
		kind string
		want int
	}{
		{"_score_", NumEmotions},
		{"_distribution_", NumEmotions},
		{"pie_chart_", 1},
		{"bar_chart_", 1},
	}
	for _, r := range refs {
		if got := strings.Count(res.HTMLDynamic, r.kind); got != r.want {
			t.Errorf("Expected %d %s references, got %d", r.want, r.kind, got)
		}
	}
	if got := strings.Count(res.HTMLDynamic, res.Timestamp); got != 2+2*NumEmotions {
		t.Errorf("Expected every image to carry the run token, got %d", got)
	}

	if a.LastResult() != res {
		t.Error("Expected LastResult to return the run")
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t)

	for _, text := range []string{"", "   ", "\n\n\t\n"} {
		if _, err := a.Execute(context.Background(), text); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Execute(%q) = %v, expected ErrInvalidInput", text, err)
		}
	}

	if n := a.TrainCount(); n != 0 {
		t.Errorf("Empty input must not train the classifier, trained %d times", n)
	}
	entries, err := os.ReadDir(a.OutputDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Empty input must not write files, found %d", len(entries))
	}
}

func TestTrainOnce(t *testing.T) {
	a := newTestAnalyzer(t)

	first, err := a.Execute(context.Background(), exampleText)
	if err != nil {
		t.Fatal(err)
	}
	model, err := a.Model()
	if err != nil {
		t.Fatal(err)
	}
	vocab := model.Vocabulary().Terms()

	second, err := a.Execute(context.Background(), "Que nojo dessa comida. Fiquei surpreso com a notícia.")
	if err != nil {
		t.Fatal(err)
	}
	if first.Timestamp == second.Timestamp {
		t.Error("Each run needs its own token")
	}
	if n := a.TrainCount(); n != 1 {
		t.Errorf("Expected a single training, got %d", n)
	}
	again, _ := a.Model()
	if !reflect.DeepEqual(again.Vocabulary().Terms(), vocab) {
		t.Error("Vocabulary changed between runs")
	}
}

func TestEnsureTrainedConcurrent(t *testing.T) {
	a := newTestAnalyzer(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.EnsureTrained(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := a.TrainCount(); n != 1 {
		t.Errorf("Expected a single training, got %d", n)
	}
}

func TestTrainingFailure(t *testing.T) {
	a := newTestAnalyzer(t, WithCorpusPath(filepath.Join(t.TempDir(), "missing.json")))

	_, err := a.Execute(context.Background(), exampleText)
	if !errors.Is(err, ErrClassifierTraining) {
		t.Fatalf("Expected ErrClassifierTraining, got %v", err)
	}
	if err := a.EnsureTrained(); !errors.Is(err, ErrClassifierTraining) {
		t.Errorf("Expected the cached training error, got %v", err)
	}
	if n := a.TrainCount(); n != 1 {
		t.Errorf("A failed training must not be retried, attempted %d times", n)
	}
}

func TestExecuteRenderFailure(t *testing.T) {
	a := newTestAnalyzer(t)
	if err := a.EnsureTrained(); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(a.OutputDir()); err != nil {
		t.Fatal(err)
	}

	_, err := a.Execute(context.Background(), exampleText)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Expected ErrRender, got %v", err)
	}
	if a.LastResult() != nil {
		t.Error("A failed run must not leave a result behind")
	}
}

func TestExecuteCancelled(t *testing.T) {
	a := newTestAnalyzer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Execute(ctx, exampleText); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	entries, _ := os.ReadDir(a.OutputDir())
	if len(entries) != 0 {
		t.Errorf("A cancelled run must not leave charts, found %d", len(entries))
	}
}

func TestResetKeepsModel(t *testing.T) {
	a := newTestAnalyzer(t)

	if _, err := a.Execute(context.Background(), exampleText); err != nil {
		t.Fatal(err)
	}
	a.Reset()
	if a.LastResult() != nil {
		t.Error("Reset must clear the last result")
	}
	a.Deactivate()

	if _, err := a.Execute(context.Background(), exampleText); err != nil {
		t.Fatal(err)
	}
	if n := a.TrainCount(); n != 1 {
		t.Errorf("Reset must keep the trained model, trained %d times", n)
	}
}

func TestWithModel(t *testing.T) {
	model := trainedModel(t)
	a := newTestAnalyzer(t, WithModel(model))

	scores, err := a.Classify("Estou muito feliz hoje.")
	if err != nil {
		t.Fatal(err)
	}
	if n := a.TrainCount(); n != 0 {
		t.Errorf("A supplied model must not be retrained, trained %d times", n)
	}
	if scores != model.Classify("Estou muito feliz hoje.") {
		t.Error("Expected the supplied model to score the sentence")
	}
}

func TestNewAnalyzerErrors(t *testing.T) {
	if _, err := NewAnalyzer(WithOutputDir(""), WithLogger(quietLogger())); err == nil {
		t.Error("Expected an error for an empty output directory")
	}
	if _, err := NewAnalyzer(WithOutputDir(t.TempDir()), WithOutlierMultiplier(0)); err == nil {
		t.Error("Expected an error for a zero outlier multiplier")
	}
}
