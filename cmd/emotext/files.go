package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tsawler/emotext"
)

const (
	fixedFileName   = "fixed.html"
	dynamicFileName = "dynamic.html"
	indexFileName   = "index.html"
	resultFileName  = "result.json"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<title>Análise de emoções {{.Timestamp}}</title>
</head>
<body>
<section class="texto">{{.Fixed}}</section>
<section class="graficos">{{.Dynamic}}</section>
</body>
</html>
`))

type sentenceSummary struct {
	Index     int                         `json:"index"`
	Paragraph int                         `json:"paragraph"`
	Text      string                      `json:"text"`
	Dominant  emotext.Emotion             `json:"dominant"`
	Scores    map[emotext.Emotion]float64 `json:"scores"`
}

type emotionSummary struct {
	Shape        emotext.Shape `json:"shape"`
	OutlierLower float64       `json:"outlier_lower"`
	OutlierUpper float64       `json:"outlier_upper"`
	Outliers     []int         `json:"outlier_sentences"`
}

type resultSummary struct {
	Timestamp     string                             `json:"timestamp"`
	CreatedAt     string                             `json:"created_at"`
	Language      string                             `json:"language"`
	NumParagraphs int                                `json:"num_paragraphs"`
	NumSentences  int                                `json:"num_sentences"`
	ParagraphEnds []int                              `json:"paragraph_ends"`
	Charts        []string                           `json:"charts"`
	Emotions      map[emotext.Emotion]emotionSummary `json:"emotions"`
	Sentences     []sentenceSummary                  `json:"sentences"`
}

func summarize(res *emotext.Result) resultSummary {
	s := resultSummary{
		Timestamp:     res.Timestamp,
		CreatedAt:     res.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Language:      res.Language.Code,
		NumParagraphs: res.NumParagraphs,
		NumSentences:  res.NumSentences,
		ParagraphEnds: res.ParagraphEnds,
		Emotions:      make(map[emotext.Emotion]emotionSummary, emotext.NumEmotions),
	}
	for _, ref := range res.Charts {
		s.Charts = append(s.Charts, ref.File)
	}
	for _, e := range emotext.Emotions {
		out := res.Outliers[e]
		s.Emotions[e] = emotionSummary{
			Shape:        res.Shapes[e],
			OutlierLower: out.Lower,
			OutlierUpper: out.Upper,
			Outliers:     out.Indices,
		}
	}
	for i, sent := range res.Sentences {
		var scores emotext.Scores
		if i < len(res.Scores) {
			scores = res.Scores[i]
		}
		s.Sentences = append(s.Sentences, sentenceSummary{
			Index:     sent.Index,
			Paragraph: sent.Paragraph,
			Text:      sent.Text,
			Dominant:  scores.Dominant(),
			Scores:    scores.Map(),
		})
	}
	return s
}

// writeArtifacts stores the HTML fragments, a standalone page and a JSON
// summary of res next to its charts.
func writeArtifacts(dir string, res *emotext.Result) error {
	if err := writeFileAtomic(filepath.Join(dir, fixedFileName), []byte(res.HTMLFixed), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fixedFileName, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, dynamicFileName), []byte(res.HTMLDynamic), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dynamicFileName, err)
	}

	var page bytes.Buffer
	err := indexTmpl.Execute(&page, struct {
		Timestamp string
		Fixed     template.HTML
		Dynamic   template.HTML
	}{
		Timestamp: res.Timestamp,
		Fixed:     template.HTML(res.HTMLFixed),
		Dynamic:   template.HTML(res.HTMLDynamic),
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", indexFileName, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, indexFileName), page.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", indexFileName, err)
	}

	b, err := json.MarshalIndent(summarize(res), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", resultFileName, err)
	}
	b = append(b, '\n')
	if err := writeFileAtomic(filepath.Join(dir, resultFileName), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", resultFileName, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_"+filepath.Base(path)+"_*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}
