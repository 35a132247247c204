package emotext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/data"
)

// A Document represents a segmented body of text.
type Document struct {
	// Text is the normalised input. Every offset in Paragraphs refers to it.
	Text       string
	Paragraphs []Paragraph
}

// Sentences returns the flattened sentence sequence, paragraph by paragraph.
func (doc *Document) Sentences() []Sentence {
	var out []Sentence
	for _, p := range doc.Paragraphs {
		out = append(out, p.Sentences...)
	}
	return out
}

// NumSentences returns the total sentence count.
func (doc *Document) NumSentences() int {
	n := 0
	for _, p := range doc.Paragraphs {
		n += len(p.Sentences)
	}
	return n
}

// ParagraphEnds returns the cumulative sentence count at the end of each
// paragraph.
func (doc *Document) ParagraphEnds() []int {
	ends := make([]int, 0, len(doc.Paragraphs))
	n := 0
	for _, p := range doc.Paragraphs {
		n += len(p.Sentences)
		ends = append(ends, n)
	}
	return ends
}

type sentenceSplitter interface {
	Tokenize(text string) []*sentences.Sentence
}

// Segmenter splits text into paragraphs and sentences.
type Segmenter struct {
	splitter sentenceSplitter
}

// NewSegmenter loads the punkt parameters for lang. Languages without
// bundled parameters fall back to the English ones.
func NewSegmenter(lang Language) (*Segmenter, error) {
	b, err := data.Asset("data/" + lang.snowballName() + ".json")
	if err != nil {
		b, err = data.Asset("data/english.json")
		if err != nil {
			return nil, fmt.Errorf("load punkt parameters: %w", err)
		}
	}

	training, err := sentences.LoadTraining(b)
	if err != nil {
		return nil, fmt.Errorf("parse punkt parameters: %w", err)
	}

	return &Segmenter{splitter: sentences.NewSentenceTokenizer(training)}, nil
}

var paragraphBreakRE = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)*`)

// NormalizeText converts line endings to \n and composes Unicode characters.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return norm.NFC.String(text)
}

// Segment normalises text and splits it. Paragraphs are separated by one or
// more blank lines; empty paragraphs are dropped. Sentences are found inside
// each paragraph, so the flattened list always agrees with the per-paragraph
// counts.
func (s *Segmenter) Segment(text string) *Document {
	doc := &Document{Text: NormalizeText(text)}

	start := 0
	for _, loc := range paragraphBreakRE.FindAllStringIndex(doc.Text, -1) {
		s.addParagraph(doc, start, loc[0])
		start = loc[1]
	}
	s.addParagraph(doc, start, len(doc.Text))

	return doc
}

func (s *Segmenter) addParagraph(doc *Document, start, end int) {
	start, end = trimSpan(doc.Text, start, end)
	if start >= end {
		return
	}

	p := Paragraph{Text: doc.Text[start:end], Start: start, End: end}
	index := len(doc.Paragraphs)

	cursor := 0
	for _, sent := range s.splitter.Tokenize(p.Text) {
		txt := strings.TrimSpace(sent.Text)
		if txt == "" {
			continue
		}

		// Locate the sentence from the cursor onward so a repeated sentence
		// maps to its own occurrence.
		at := strings.Index(p.Text[cursor:], txt)
		var sStart, sEnd int
		if at >= 0 {
			sStart = cursor + at
			sEnd = sStart + len(txt)
		} else {
			sStart = cursor
			sEnd = cursor + len(txt)
			if sEnd > len(p.Text) {
				sEnd = len(p.Text)
			}
		}
		cursor = sEnd

		p.Sentences = append(p.Sentences, Sentence{
			Text:      txt,
			Paragraph: index,
			Index:     len(p.Sentences),
			Start:     start + sStart,
			End:       start + sEnd,
		})
	}

	doc.Paragraphs = append(doc.Paragraphs, p)
}

func trimSpan(text string, start, end int) (int, int) {
	span := text[start:end]
	left := strings.TrimLeftFunc(span, unicode.IsSpace)
	start += len(span) - len(left)
	end = start + len(strings.TrimRightFunc(left, unicode.IsSpace))
	return start, end
}
