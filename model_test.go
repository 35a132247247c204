package emotext

import (
	"errors"
	"math"
	"sort"
	"testing"
	"testing/fstest"

	"gonum.org/v1/gonum/mat"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	corpus, err := LoadCorpus(Portuguese)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	model, err := TrainModel(corpus)
	if err != nil {
		t.Fatalf("TrainModel: %v", err)
	}
	return model
}

func TestTrainModel(t *testing.T) {
	model := trainedModel(t)

	terms := model.Vocabulary().Terms()
	if len(terms) == 0 {
		t.Fatal("Expected a non-empty vocabulary")
	}
	if !sort.StringsAreSorted(terms) {
		t.Error("Expected vocabulary terms in sorted order")
	}
	if model.Language != Portuguese || model.CorpusVersion == "" {
		t.Errorf("Unexpected model metadata %+v", model)
	}

	again := trainedModel(t)
	if got, want := again.Vocabulary().Terms(), terms; len(got) != len(want) {
		t.Errorf("Training is not deterministic: %d vs %d terms", len(got), len(want))
	}
}

func TestClassifyProbabilities(t *testing.T) {
	model := trainedModel(t)

	tests := []string{
		"Estou muito feliz hoje.",
		"Tenho medo do escuro.",
		"xyzzy plugh",
		"",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			scores := model.Classify(text)
			if math.Abs(scores.Sum()-1) > 1e-9 {
				t.Errorf("Expected probabilities to sum to 1, got %f", scores.Sum())
			}
			for i, p := range scores {
				if p < 0 || p > 1 || math.IsNaN(p) {
					t.Errorf("Probability for %s out of range: %f", Emotions[i], p)
				}
			}
		})
	}
}

func TestClassifyTrainingAccuracy(t *testing.T) {
	corpus, err := LoadCorpus(Portuguese)
	if err != nil {
		t.Fatal(err)
	}
	model, err := TrainModel(corpus)
	if err != nil {
		t.Fatal(err)
	}

	correct := 0
	for _, ex := range corpus.Examples() {
		if model.Classify(ex.Text).Dominant() == ex.Emotion {
			correct++
		}
	}
	accuracy := float64(correct) / float64(corpus.Len())
	if accuracy < 0.7 {
		t.Errorf("Expected training accuracy of at least 0.7, got %.2f", accuracy)
	}
}

func TestModelFeatures(t *testing.T) {
	model := trainedModel(t)

	features := model.Features(Words("Tenho medo do escuro xyzzy"))
	if len(features) != model.Vocabulary().Len() {
		t.Errorf("Expected %d features, got %d", model.Vocabulary().Len(), len(features))
	}
	stem := model.processor.Stem("medo")
	if !features[stem] {
		t.Errorf("Expected feature %q to be present", stem)
	}
	if _, ok := features["xyzzy"]; ok {
		t.Error("Out-of-vocabulary words must not become features")
	}
}

func TestModelWriteAndLoad(t *testing.T) {
	model := trainedModel(t)
	dir := t.TempDir()

	if err := model.Write(dir); err != nil {
		t.Fatalf("Write: %v", err)
	}
	loaded, err := ModelFromDisk(dir)
	if err != nil {
		t.Fatalf("ModelFromDisk: %v", err)
	}

	if loaded.Name != model.Name || loaded.CorpusVersion != model.CorpusVersion {
		t.Errorf("Metadata mismatch: %+v vs %+v", loaded, model)
	}
	if loaded.Vocabulary().Len() != model.Vocabulary().Len() {
		t.Fatalf("Vocabulary mismatch: %d vs %d", loaded.Vocabulary().Len(), model.Vocabulary().Len())
	}

	for _, text := range []string{"Estou muito feliz hoje.", "Que nojo dessa comida."} {
		a, b := model.Classify(text), loaded.Classify(text)
		for i := range a {
			if math.Abs(a[i]-b[i]) > 1e-12 {
				t.Errorf("%q: score %s differs after reload: %f vs %f", text, Emotions[i], a[i], b[i])
			}
		}
	}
}

func TestModelFromFSInvalid(t *testing.T) {
	fsys := fstest.MapFS{modelFileName: &fstest.MapFile{Data: []byte("not a gob")}}
	if _, err := ModelFromFS(fsys); err == nil {
		t.Error("Expected an error decoding garbage")
	}
	if _, err := ModelFromFS(fstest.MapFS{}); err == nil {
		t.Error("Expected an error for a missing model file")
	}
}

func TestTrainModelErrors(t *testing.T) {
	if _, err := TrainModel(nil); !errors.Is(err, ErrClassifierTraining) {
		t.Errorf("Expected ErrClassifierTraining for nil corpus, got %v", err)
	}

	// A lexicon made only of stop words leaves nothing to learn from.
	data := `{"version":"t","languages":{"portuguese":{
		"anger":["de"],"sadness":["que"],"surprise":["de"],
		"fear":["que"],"disgust":["de"],"joy":["que"]}}}`
	corpus, err := ParseCorpus([]byte(data), Portuguese)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := TrainModel(corpus); !errors.Is(err, ErrClassifierTraining) {
		t.Errorf("Expected ErrClassifierTraining for empty vocabulary, got %v", err)
	}
}

func TestNaiveBayes(t *testing.T) {
	// Two features: the first only appears in joy documents, the second only
	// in fear documents.
	docs := []*mat.VecDense{
		mat.NewVecDense(2, []float64{1, 0}),
		mat.NewVecDense(2, []float64{1, 0}),
		mat.NewVecDense(2, []float64{0, 1}),
		mat.NewVecDense(2, []float64{0, 1}),
	}
	labels := []Emotion{Joy, Joy, Fear, Fear}

	nb, err := trainNaiveBayes(docs, labels, 2)
	if err != nil {
		t.Fatalf("trainNaiveBayes: %v", err)
	}
	if nb.counts.DocCounts[Joy.Index()] != 2 || nb.counts.FeatureCounts[Joy.Index()][0] != 2 {
		t.Errorf("Unexpected counts %+v", nb.counts)
	}

	joy := nb.probabilities(mat.NewVecDense(2, []float64{1, 0}))
	if joy.Dominant() != Joy {
		t.Errorf("Expected joy, got %s (%v)", joy.Dominant(), joy)
	}
	fear := nb.probabilities(mat.NewVecDense(2, []float64{0, 1}))
	if fear.Dominant() != Fear {
		t.Errorf("Expected fear, got %s (%v)", fear.Dominant(), fear)
	}

	// With gamma 0.5: P(joy) = 2.5/7, P(f1=1|joy) = 2.5/3, P(f2=0|joy) = 2.5/3,
	// and P(f1=1|fear) = 0.5/3, P(f2=0|fear) = 0.5/3. Unseen labels have
	// prior 0.5/7 and both conditionals 0.5/1.
	joyLL := (2.5 / 7) * (2.5 / 3) * (2.5 / 3)
	fearLL := (2.5 / 7) * (0.5 / 3) * (0.5 / 3)
	otherLL := (0.5 / 7) * 0.5 * 0.5
	want := joyLL / (joyLL + fearLL + 4*otherLL)
	if math.Abs(joy.Get(Joy)-want) > 1e-9 {
		t.Errorf("Expected P(joy)=%f, got %f", want, joy.Get(Joy))
	}
}

func TestNaiveBayesErrors(t *testing.T) {
	if _, err := trainNaiveBayes(nil, []Emotion{Joy}, 1); err == nil {
		t.Error("Expected an error for mismatched docs and labels")
	}
	if _, err := trainNaiveBayes(nil, nil, 0); err == nil {
		t.Error("Expected an error for an empty vocabulary")
	}
	docs := []*mat.VecDense{mat.NewVecDense(1, []float64{1})}
	if _, err := trainNaiveBayes(docs, []Emotion{"boredom"}, 1); err == nil {
		t.Error("Expected an error for an unknown label")
	}
}
