package emotext

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed data/*.json
var corpusFS embed.FS

const defaultCorpusFile = "data/lexicon_pt.json"

// An Example is one labeled training phrase.
type Example struct {
	Text    string
	Emotion Emotion
}

// Corpus is the emotion lexicon the classifier is trained on. It is
// immutable once loaded.
type Corpus struct {
	Version  string
	Language Language
	examples []Example
}

// ExternalCorpus represents the JSON structure for lexicon files
type ExternalCorpus struct {
	Version   string                    `json:"version"`
	Languages map[string]LanguageCorpus `json:"languages"`
}

// LanguageCorpus maps an emotion label to its example phrases.
type LanguageCorpus map[string][]string

// LoadCorpus loads the lexicon bundled with the package.
func LoadCorpus(lang Language) (*Corpus, error) {
	data, err := corpusFS.ReadFile(defaultCorpusFile)
	if err != nil {
		return nil, fmt.Errorf("error reading bundled lexicon: %w", err)
	}
	return ParseCorpus(data, lang)
}

// LoadCorpusFile loads a lexicon from disk.
func LoadCorpusFile(path string, lang Language) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading lexicon file: %w", err)
	}
	return ParseCorpus(data, lang)
}

// ParseCorpus decodes a lexicon document and extracts the examples for lang.
func ParseCorpus(data []byte, lang Language) (*Corpus, error) {
	var external ExternalCorpus
	if err := json.Unmarshal(data, &external); err != nil {
		return nil, fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	langData, ok := external.Languages[lang.snowballName()]
	if !ok {
		langData, ok = external.Languages[string(lang)]
	}
	if !ok {
		return nil, fmt.Errorf("lexicon has no %q section", lang.snowballName())
	}

	for label := range langData {
		if !Emotion(label).Valid() {
			return nil, fmt.Errorf("lexicon contains unknown emotion %q", label)
		}
	}

	corpus := &Corpus{Version: external.Version, Language: lang}

	// Walk labels in score order so the example sequence is stable.
	for _, emotion := range Emotions {
		phrases, ok := langData[string(emotion)]
		if !ok || len(phrases) == 0 {
			return nil, fmt.Errorf("lexicon has no examples for %q", emotion)
		}
		for i, phrase := range phrases {
			phrase = strings.TrimSpace(phrase)
			if phrase == "" {
				return nil, fmt.Errorf("lexicon example %d of %q is empty", i, emotion)
			}
			corpus.examples = append(corpus.examples, Example{Text: phrase, Emotion: emotion})
		}
	}

	return corpus, nil
}

// Examples returns a copy of the training examples in corpus order.
func (c *Corpus) Examples() []Example {
	out := make([]Example, len(c.examples))
	copy(out, c.examples)
	return out
}

// Len returns the number of examples.
func (c *Corpus) Len() int {
	return len(c.examples)
}

// Count returns the number of examples labeled e.
func (c *Corpus) Count(e Emotion) int {
	n := 0
	for _, ex := range c.examples {
		if ex.Emotion == e {
			n++
		}
	}
	return n
}
