package emotext

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// eleGamma is the expected-likelihood smoothing constant added to every
// count.
const eleGamma = 0.5

// nbCounts are the sufficient statistics of a Bernoulli naive Bayes model:
// per label, how many documents were seen and how many of them contained
// each vocabulary term.
type nbCounts struct {
	DocCounts     [NumEmotions]int
	FeatureCounts [NumEmotions][]int
}

// naiveBayesClassifier scores boolean vocabulary vectors.
//
// For a 0/1 vector x the joint log-likelihood of label c is
//
//	log P(c) + sum_j log P(f_j=0|c) + sum_j x_j * (log P(f_j=1|c) - log P(f_j=0|c))
//
// so everything but the last term is folded into base and scoring is a
// single matrix-vector product.
type naiveBayesClassifier struct {
	counts nbCounts
	base   *mat.VecDense // NumEmotions
	diff   *mat.Dense    // NumEmotions x vocabulary
}

func trainNaiveBayes(docs []*mat.VecDense, labels []Emotion, vocabSize int) (*naiveBayesClassifier, error) {
	if len(docs) != len(labels) {
		return nil, fmt.Errorf("got %d documents and %d labels", len(docs), len(labels))
	}
	if vocabSize == 0 {
		return nil, errors.New("vocabulary is empty")
	}

	var counts nbCounts
	for c := range counts.FeatureCounts {
		counts.FeatureCounts[c] = make([]int, vocabSize)
	}
	for n, doc := range docs {
		c := labels[n].Index()
		if c < 0 {
			return nil, fmt.Errorf("document %d has unknown label %q", n, labels[n])
		}
		counts.DocCounts[c]++
		for j := 0; j < vocabSize; j++ {
			if doc.AtVec(j) != 0 {
				counts.FeatureCounts[c][j]++
			}
		}
	}

	return naiveBayesFromCounts(counts)
}

func naiveBayesFromCounts(counts nbCounts) (*naiveBayesClassifier, error) {
	vocabSize := len(counts.FeatureCounts[0])
	if vocabSize == 0 {
		return nil, errors.New("vocabulary is empty")
	}

	total := 0
	for _, n := range counts.DocCounts {
		total += n
	}
	if total == 0 {
		return nil, errors.New("no training documents")
	}

	base := mat.NewVecDense(NumEmotions, nil)
	diff := mat.NewDense(NumEmotions, vocabSize, nil)

	for c := 0; c < NumEmotions; c++ {
		if len(counts.FeatureCounts[c]) != vocabSize {
			return nil, fmt.Errorf("label %q has %d feature counts, want %d",
				Emotions[c], len(counts.FeatureCounts[c]), vocabSize)
		}
		nc := float64(counts.DocCounts[c])
		prior := (nc + eleGamma) / (float64(total) + eleGamma*NumEmotions)
		b := math.Log(prior)

		// Each feature takes two values, so the denominator adds 2*gamma.
		denom := nc + 2*eleGamma
		for j, seen := range counts.FeatureCounts[c] {
			pTrue := (float64(seen) + eleGamma) / denom
			pFalse := (nc - float64(seen) + eleGamma) / denom
			b += math.Log(pFalse)
			diff.Set(c, j, math.Log(pTrue)-math.Log(pFalse))
		}
		base.SetVec(c, b)
	}

	return &naiveBayesClassifier{counts: counts, base: base, diff: diff}, nil
}

// probabilities returns the posterior distribution over labels for x.
func (nb *naiveBayesClassifier) probabilities(x *mat.VecDense) Scores {
	var logp mat.VecDense
	logp.MulVec(nb.diff, x)
	logp.AddVec(&logp, nb.base)

	// Shift by the maximum before exponentiating to avoid underflow.
	top := mat.Max(&logp)
	var s Scores
	var total float64
	for c := 0; c < NumEmotions; c++ {
		s[c] = math.Exp(logp.AtVec(c) - top)
		total += s[c]
	}
	for c := range s {
		s[c] /= total
	}
	return s
}
