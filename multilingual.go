package emotext

import (
	"strings"
	"unicode"

	"github.com/abadojack/whatlanggo"
	"github.com/bbalet/stopwords"
	"github.com/blevesearch/snowballstem"
	"github.com/blevesearch/snowballstem/portuguese"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// LanguageSpecificProcessor turns raw word tokens into the stemmed,
// stopword-free terms the classifier works with.
type LanguageSpecificProcessor struct {
	language Language
	tag      language.Tag

	stopCache *lru.Cache[string, bool]
}

// stopCacheSize bounds the memoised stop word lookups per processor.
const stopCacheSize = 4096

// NewLanguageSpecificProcessor creates a processor for a specific language
func NewLanguageSpecificProcessor(lang Language) *LanguageSpecificProcessor {
	tag, err := language.Parse(string(lang))
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	// lru.New only fails for a non-positive size.
	stopCache, _ := lru.New[string, bool](stopCacheSize)
	return &LanguageSpecificProcessor{
		language:  lang,
		tag:       tag,
		stopCache: stopCache,
	}
}

// Language returns the processor's language.
func (lsp *LanguageSpecificProcessor) Language() Language {
	return lsp.language
}

// Normalize lowercases and NFC-normalises a word.
func (lsp *LanguageSpecificProcessor) Normalize(word string) string {
	return cases.Lower(lsp.tag).String(norm.NFC.String(word))
}

// IsStopWord reports whether the normalised word is a stop word.
func (lsp *LanguageSpecificProcessor) IsStopWord(word string) bool {
	if stop, ok := lsp.stopCache.Get(word); ok {
		return stop
	}
	// The stopwords library only exposes a cleaning function, so a word is a
	// stop word when cleaning it leaves nothing behind.
	cleaned := stopwords.CleanString(word, string(lsp.language), false)
	stop := strings.TrimSpace(cleaned) == ""
	lsp.stopCache.Add(word, stop)
	return stop
}

// Stem reduces a normalised word to its stem.
func (lsp *LanguageSpecificProcessor) Stem(word string) string {
	if lsp.language == Portuguese {
		env := snowballstem.NewEnv(word)
		portuguese.Stem(env)
		return env.Current()
	}
	stemmed, err := snowball.Stem(word, lsp.language.snowballName(), true)
	if err != nil {
		// if stemming fails, use the original token
		return word
	}
	return stemmed
}

// Terms normalises, filters and stems words. Tokens without a letter are
// dropped along with stop words.
func (lsp *LanguageSpecificProcessor) Terms(words []string) []string {
	terms := make([]string, 0, len(words))
	for _, w := range words {
		w = lsp.Normalize(w)
		if !hasLetter(w) || lsp.IsStopWord(w) {
			continue
		}
		terms = append(terms, lsp.Stem(w))
	}
	return terms
}

// TermsOf tokenizes text and returns its terms.
func (lsp *LanguageSpecificProcessor) TermsOf(text string) []string {
	return lsp.Terms(Words(text))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// DetectedLanguage describes the language guessed for an input document.
type DetectedLanguage struct {
	Code       string  // ISO 639-1 code, empty when unknown
	Name       string
	Confidence float64
	Reliable   bool
}

// DetectLanguage guesses the language of text. It is informational only and
// never changes how text is processed.
func DetectLanguage(text string) DetectedLanguage {
	info := whatlanggo.Detect(text)
	return DetectedLanguage{
		Code:       info.Lang.Iso6391(),
		Name:       info.Lang.String(),
		Confidence: info.Confidence,
		Reliable:   info.IsReliable(),
	}
}
