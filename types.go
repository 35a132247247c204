package emotext

import (
	"fmt"
	"strings"
)

// Language represents supported languages
type Language string

const (
	Portuguese Language = "pt"
	English    Language = "en"
	Spanish    Language = "es"
	French     Language = "fr"
)

// snowballName returns the language name used by the snowball stemmers and
// the punkt training files.
func (l Language) snowballName() string {
	switch l {
	case Portuguese:
		return "portuguese"
	case English:
		return "english"
	case Spanish:
		return "spanish"
	case French:
		return "french"
	default:
		return strings.ToLower(string(l))
	}
}

// An Emotion is one of the six categories the classifier scores.
type Emotion string

const (
	Anger    Emotion = "anger"
	Sadness  Emotion = "sadness"
	Surprise Emotion = "surprise"
	Fear     Emotion = "fear"
	Disgust  Emotion = "disgust"
	Joy      Emotion = "joy"
)

// NumEmotions is the size of the classification output space.
const NumEmotions = 6

// Emotions lists the labels in score order. Every Scores value and every
// chart gallery follows this order.
var Emotions = [NumEmotions]Emotion{Anger, Sadness, Surprise, Fear, Disgust, Joy}

// emotionNames holds the Portuguese display names used in charts and HTML.
var emotionNames = map[Emotion]string{
	Anger:    "raiva",
	Sadness:  "tristeza",
	Surprise: "surpresa",
	Fear:     "medo",
	Disgust:  "desgosto",
	Joy:      "alegria",
}

// Index returns the position of e in Emotions, or -1.
func (e Emotion) Index() int {
	for i, x := range Emotions {
		if x == e {
			return i
		}
	}
	return -1
}

// Valid reports whether e is one of the six known labels.
func (e Emotion) Valid() bool {
	return e.Index() >= 0
}

// DisplayName returns the label shown to readers.
func (e Emotion) DisplayName() string {
	if name, ok := emotionNames[e]; ok {
		return name
	}
	return string(e)
}

// ParseEmotion accepts either the label or its display name.
func ParseEmotion(s string) (Emotion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range Emotions {
		if string(e) == s || emotionNames[e] == s {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown emotion %q", s)
}

// Scores holds one probability per emotion, in Emotions order.
type Scores [NumEmotions]float64

// Get returns the probability for e.
func (s Scores) Get(e Emotion) float64 {
	if i := e.Index(); i >= 0 {
		return s[i]
	}
	return 0
}

// Sum returns the total probability mass.
func (s Scores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}

// Dominant returns the emotion with the highest probability. Ties resolve to
// the earliest label.
func (s Scores) Dominant() Emotion {
	best := 0
	for i := 1; i < NumEmotions; i++ {
		if s[i] > s[best] {
			best = i
		}
	}
	return Emotions[best]
}

// Map returns the scores keyed by label.
func (s Scores) Map() map[Emotion]float64 {
	m := make(map[Emotion]float64, NumEmotions)
	for i, e := range Emotions {
		m[e] = s[i]
	}
	return m
}

// A Sentence represents a segmented portion of text.
type Sentence struct {
	Text      string // The sentence's text, trimmed.
	Paragraph int    // Index of the paragraph holding the sentence
	Index     int    // Position inside the paragraph
	Start     int    // Start byte offset in the normalised document
	End       int    // End byte offset in the normalised document
}

// String returns the text content of the sentence
func (s Sentence) String() string {
	return s.Text
}

// A Paragraph is a blank-line delimited block of the document.
type Paragraph struct {
	Text      string
	Start     int
	End       int
	Sentences []Sentence
}

// ScoreSeries is the per-sentence score sequence of one document, aligned
// index for index with the flattened sentence list.
type ScoreSeries []Scores

// Emotion returns the series for a single label.
func (ss ScoreSeries) Emotion(e Emotion) []float64 {
	i := e.Index()
	out := make([]float64, len(ss))
	if i < 0 {
		return out
	}
	for n, s := range ss {
		out[n] = s[i]
	}
	return out
}
