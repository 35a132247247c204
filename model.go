package emotext

import (
	"encoding/gob"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// A Model holds a trained emotion classifier and the vocabulary it was
// fitted on. It is read-only after construction and safe for concurrent use.
type Model struct {
	Name          string
	Language      Language
	CorpusVersion string

	vocab      *Vocabulary
	processor  *LanguageSpecificProcessor
	extractor  *featureExtractor
	classifier *naiveBayesClassifier
}

// TrainModel fits a classifier on every example of the corpus. Training is
// deterministic: the same corpus always yields the same model.
func TrainModel(corpus *Corpus) (*Model, error) {
	if corpus == nil || corpus.Len() == 0 {
		return nil, fmt.Errorf("%w: empty corpus", ErrClassifierTraining)
	}

	processor := NewLanguageSpecificProcessor(corpus.Language)
	examples := corpus.Examples()

	docs := make([][]string, len(examples))
	labels := make([]Emotion, len(examples))
	for i, ex := range examples {
		docs[i] = processor.TermsOf(ex.Text)
		labels[i] = ex.Emotion
	}

	vocab := newVocabulary(docs)
	if vocab.Len() == 0 {
		return nil, fmt.Errorf("%w: corpus produced an empty vocabulary", ErrClassifierTraining)
	}
	extractor := newFeatureExtractor(vocab, processor)

	vectors := make([]*mat.VecDense, len(docs))
	for i, doc := range docs {
		vectors[i] = extractor.vector(doc)
	}

	nb, err := trainNaiveBayes(vectors, labels, vocab.Len())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierTraining, err)
	}

	return &Model{
		Name:          "emotext-" + string(corpus.Language),
		Language:      corpus.Language,
		CorpusVersion: corpus.Version,
		vocab:         vocab,
		processor:     processor,
		extractor:     extractor,
		classifier:    nb,
	}, nil
}

// Vocabulary returns the frozen vocabulary.
func (m *Model) Vocabulary() *Vocabulary {
	return m.vocab
}

// Features returns the boolean feature mapping for raw word tokens.
func (m *Model) Features(words []string) map[string]bool {
	return m.extractor.Features(words)
}

// Classify scores a sentence. The six probabilities sum to 1.
func (m *Model) Classify(sentence string) Scores {
	terms := m.processor.TermsOf(sentence)
	return m.classifier.probabilities(m.extractor.vector(terms))
}

type modelFile struct {
	Name          string
	Language      Language
	CorpusVersion string
	Terms         []string
	Counts        nbCounts
}

const modelFileName = "emotion.gob"

// Write saves the model to the user-provided directory.
func (m *Model) Write(path string) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(path, modelFileName))
	if err != nil {
		return err
	}
	if err := m.encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (m *Model) encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(modelFile{
		Name:          m.Name,
		Language:      m.Language,
		CorpusVersion: m.CorpusVersion,
		Terms:         m.vocab.terms,
		Counts:        m.classifier.counts,
	})
}

// ModelFromDisk loads a Model from the user-provided directory.
func ModelFromDisk(path string) (*Model, error) {
	return ModelFromFS(os.DirFS(path))
}

// ModelFromFS loads a model written by Write from the root of filesys.
func ModelFromFS(filesys fs.FS) (*Model, error) {
	f, err := filesys.Open(modelFileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeModel(f)
}

func decodeModel(r io.Reader) (*Model, error) {
	var mf modelFile
	if err := gob.NewDecoder(r).Decode(&mf); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(mf.Terms) == 0 {
		return nil, fmt.Errorf("decode model: empty vocabulary")
	}

	nb, err := naiveBayesFromCounts(mf.Counts)
	if err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if len(mf.Counts.FeatureCounts[0]) != len(mf.Terms) {
		return nil, fmt.Errorf("decode model: %d terms but %d feature counts",
			len(mf.Terms), len(mf.Counts.FeatureCounts[0]))
	}

	vocab := vocabularyFromTerms(mf.Terms)
	processor := NewLanguageSpecificProcessor(mf.Language)
	return &Model{
		Name:          mf.Name,
		Language:      mf.Language,
		CorpusVersion: mf.CorpusVersion,
		vocab:         vocab,
		processor:     processor,
		extractor:     newFeatureExtractor(vocab, processor),
		classifier:    nb,
	}, nil
}
