package emotext

import (
	"reflect"
	"testing"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := NewSegmenter(Portuguese)
	if err != nil {
		t.Fatalf("NewSegmenter: %v", err)
	}
	return s
}

func TestSegment(t *testing.T) {
	s := newTestSegmenter(t)

	tests := []struct {
		name       string
		text       string
		paragraphs int
		sentences  []string
		ends       []int
	}{
		{
			name:       "two paragraphs",
			text:       "O dia está lindo. Estou muito feliz.\n\nTenho medo do escuro.",
			paragraphs: 2,
			sentences:  []string{"O dia está lindo.", "Estou muito feliz.", "Tenho medo do escuro."},
			ends:       []int{2, 3},
		},
		{
			name:       "windows line endings",
			text:       "Primeiro parágrafo.\r\n\r\nSegundo parágrafo.",
			paragraphs: 2,
			sentences:  []string{"Primeiro parágrafo.", "Segundo parágrafo."},
			ends:       []int{1, 2},
		},
		{
			name:       "blank lines with spaces",
			text:       "Um.\n   \n\t\n\nDois.",
			paragraphs: 2,
			sentences:  []string{"Um.", "Dois."},
			ends:       []int{1, 2},
		},
		{
			name:       "single line break stays in paragraph",
			text:       "Estou feliz.\nTenho medo.",
			paragraphs: 1,
			sentences:  []string{"Estou feliz.", "Tenho medo."},
			ends:       []int{2},
		},
		{
			name:       "whitespace only",
			text:       " \n\n \t ",
			paragraphs: 0,
			sentences:  []string{},
			ends:       []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := s.Segment(tt.text)
			if len(doc.Paragraphs) != tt.paragraphs {
				t.Fatalf("Expected %d paragraphs, got %d", tt.paragraphs, len(doc.Paragraphs))
			}

			got := []string{}
			for _, sent := range doc.Sentences() {
				got = append(got, sent.Text)
				if doc.Text[sent.Start:sent.End] != sent.Text {
					t.Errorf("Sentence %q has offsets covering %q", sent.Text, doc.Text[sent.Start:sent.End])
				}
			}
			if !reflect.DeepEqual(got, tt.sentences) {
				t.Errorf("Sentences = %q, expected %q", got, tt.sentences)
			}
			if doc.NumSentences() != len(tt.sentences) {
				t.Errorf("NumSentences = %d, expected %d", doc.NumSentences(), len(tt.sentences))
			}
			if ends := doc.ParagraphEnds(); !reflect.DeepEqual(ends, tt.ends) {
				t.Errorf("ParagraphEnds = %v, expected %v", ends, tt.ends)
			}
		})
	}
}

func TestSegmentRepeatedSentences(t *testing.T) {
	s := newTestSegmenter(t)
	doc := s.Segment("Estou feliz. Estou feliz. Estou feliz.")

	sentences := doc.Sentences()
	if len(sentences) != 3 {
		t.Fatalf("Expected 3 sentences, got %d", len(sentences))
	}
	for i := 1; i < len(sentences); i++ {
		if sentences[i].Start <= sentences[i-1].Start {
			t.Errorf("Sentence %d starts at %d, not after %d", i, sentences[i].Start, sentences[i-1].Start)
		}
		if sentences[i].Index != i {
			t.Errorf("Sentence %d has index %d", i, sentences[i].Index)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("a\r\nb\rc")
	if got != "a\nb\nc" {
		t.Errorf("NormalizeText = %q", got)
	}
}
