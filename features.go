package emotext

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Vocabulary is the frozen, sorted set of stems seen in the training corpus.
type Vocabulary struct {
	terms []string
	index map[string]int
}

// newVocabulary collects the unique terms of every training document.
func newVocabulary(docs [][]string) *Vocabulary {
	seen := make(map[string]bool)
	for _, doc := range docs {
		for _, term := range doc {
			seen[term] = true
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	return vocabularyFromTerms(terms)
}

func vocabularyFromTerms(terms []string) *Vocabulary {
	v := &Vocabulary{terms: terms, index: make(map[string]int, len(terms))}
	for i, term := range terms {
		v.index[term] = i
	}
	return v
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Terms returns a copy of the terms in feature order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Contains reports whether term is part of the vocabulary.
func (v *Vocabulary) Contains(term string) bool {
	_, ok := v.index[term]
	return ok
}

// featureExtractor maps processed terms onto the vocabulary.
type featureExtractor struct {
	vocab     *Vocabulary
	processor *LanguageSpecificProcessor
}

func newFeatureExtractor(vocab *Vocabulary, processor *LanguageSpecificProcessor) *featureExtractor {
	return &featureExtractor{vocab: vocab, processor: processor}
}

// Features returns one boolean entry per vocabulary term. Terms outside the
// vocabulary are dropped.
func (fe *featureExtractor) Features(words []string) map[string]bool {
	present := fe.present(fe.processor.Terms(words))
	features := make(map[string]bool, len(fe.vocab.terms))
	for i, term := range fe.vocab.terms {
		features[term] = present[i]
	}
	return features
}

// vector encodes already-processed terms as a 0/1 vector in vocabulary order.
func (fe *featureExtractor) vector(terms []string) *mat.VecDense {
	present := fe.present(terms)
	data := make([]float64, len(present))
	for i, p := range present {
		if p {
			data[i] = 1
		}
	}
	return mat.NewVecDense(len(data), data)
}

func (fe *featureExtractor) present(terms []string) []bool {
	present := make([]bool, len(fe.vocab.terms))
	for _, term := range terms {
		if i, ok := fe.vocab.index[term]; ok {
			present[i] = true
		}
	}
	return present
}
