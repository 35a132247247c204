package emotext

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents an individual token of text such as a word or punctuation
// symbol.
type Token struct {
	Text  string // The token's actual content.
	Start int    // Start position in original text
	End   int    // End position in original text
}

type TokenTester func(string) bool

type Tokenizer interface {
	Tokenize(string) []*Token
}

// wordTokenizer splits a sentence into words.
type wordTokenizer struct {
	specialRE      *regexp.Regexp
	prefixes       []string
	suffixes       []string
	isUnsplittable TokenTester
}

type TokenizerOptFunc func(*wordTokenizer)

// UsingIsUnsplittable gives a function that tests whether a token is splittable or not.
func UsingIsUnsplittable(x TokenTester) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.isUnsplittable = x
	}
}

// Use the provided special regex for unsplittable tokens.
func UsingSpecialRE(x *regexp.Regexp) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.specialRE = x
	}
}

// Use the provided suffixes.
func UsingSuffixes(x []string) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.suffixes = x
	}
}

// Use the provided prefixes.
func UsingPrefixes(x []string) TokenizerOptFunc {
	return func(tokenizer *wordTokenizer) {
		tokenizer.prefixes = x
	}
}

// NewWordTokenizer returns the default word tokenizer.
func NewWordTokenizer(opts ...TokenizerOptFunc) Tokenizer {
	tok := &wordTokenizer{
		specialRE:      acronymRE,
		prefixes:       prefixes,
		suffixes:       suffixes,
		isUnsplittable: isAbbreviation,
	}
	for _, applyOpt := range opts {
		applyOpt(tok)
	}
	return tok
}

func (t *wordTokenizer) isSpecial(token string) bool {
	return t.specialRE.MatchString(token) || t.isUnsplittable(token)
}

func (t *wordTokenizer) doSplit(token string, offset int) []*Token {
	var tokens, suffs []*Token

	for token != "" {
		if t.isSpecial(token) {
			// Abbreviations such as "Sr." or "E.U.A." keep their dots.
			tokens = append(tokens, &Token{Text: token, Start: offset, End: offset + len(token)})
			break
		}
		if p := matchPrefix(token, t.prefixes); p != "" {
			// Remove prefixes -- e.g., (festa -> [(, festa].
			tokens = append(tokens, &Token{Text: p, Start: offset, End: offset + len(p)})
			token = token[len(p):]
			offset += len(p)
		} else if s := matchSuffix(token, t.suffixes); s != "" {
			// Remove suffixes -- e.g., alegria! -> [alegria, !].
			start := offset + len(token) - len(s)
			suffs = append([]*Token{{Text: s, Start: start, End: start + len(s)}}, suffs...)
			token = token[:len(token)-len(s)]
		} else {
			tokens = append(tokens, &Token{Text: token, Start: offset, End: offset + len(token)})
			break
		}
	}

	return append(tokens, suffs...)
}

// Tokenize splits text on whitespace and then peels punctuation off each
// span. Offsets refer to text.
func (t *wordTokenizer) Tokenize(text string) []*Token {
	var tokens []*Token

	start := -1
	for index := 0; index < len(text); {
		r, size := utf8.DecodeRuneInString(text[index:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, t.doSplit(text[start:index], start)...)
				start = -1
			}
		} else if start < 0 {
			start = index
		}
		index += size
	}
	if start >= 0 {
		tokens = append(tokens, t.doSplit(text[start:], start)...)
	}

	return tokens
}

// Words returns the token texts of text.
func Words(text string) []string {
	toks := defaultTokenizer.Tokenize(text)
	words := make([]string, 0, len(toks))
	for _, tok := range toks {
		words = append(words, tok.Text)
	}
	return words
}

func matchPrefix(s string, prefixes []string) string {
	for _, p := range prefixes {
		if len(s) > len(p) && strings.HasPrefix(s, p) {
			return p
		}
	}
	return ""
}

func matchSuffix(s string, suffixes []string) string {
	for _, x := range suffixes {
		if len(s) > len(x) && strings.HasSuffix(s, x) {
			return x
		}
	}
	return ""
}

var defaultTokenizer = NewWordTokenizer()

var acronymRE = regexp.MustCompile(`^(?:\p{L}\.){2,}$`)

// abbreviations keep their trailing dot. A capitalized short word that ends a
// sentence ("Paz.") is not listed and loses it.
var abbreviations = map[string]bool{
	"sr.": true, "sra.": true, "srta.": true, "dr.": true, "dra.": true,
	"prof.": true, "profa.": true, "eng.": true, "exmo.": true, "exma.": true,
	"av.": true, "sto.": true, "sta.": true, "pág.": true, "etc.": true,
	"obs.": true, "cia.": true, "ltda.": true, "vol.": true, "cap.": true,
}

func isAbbreviation(token string) bool {
	return abbreviations[strings.ToLower(token)]
}

var prefixes = []string{"$", "(", `"`, "[", "“", "‘", "«", "¿", "¡", "'", "-", "—"}
var suffixes = []string{",", ")", `"`, "]", "!", ";", ".", "?", ":", "'", "”", "’", "»", "…", "%"}
