package emotext

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var fixedTmpl = template.Must(template.New("fixed").Parse(`
<h1>Texto Analisado</h1>
<div id="analyzedText" style="border:1px solid black; padding:10px;">
{{- range .}}
<p>{{.}}</p>
{{- end}}
</div>
`))

var dynamicTmpl = template.Must(template.New("dynamic").Parse(`
<h1>Gráficos Gerais</h1>
<div style="border:1px solid black; padding:10px; text-align:center;">
{{- range .Overview}}
<img src="{{.Src}}" alt="{{.Alt}}" style="max-width:80%; height:auto; margin:10px 0; display:block;">
{{- end}}
</div>
{{- range .Sections}}
<h2>{{.Title}}</h2>
<div style="border:1px solid black; padding:10px; text-align:center;">
{{- range .Images}}
<img src="{{.Src}}" alt="{{.Alt}}" style="max-width:80%; height:auto; margin:10px 0; display:block;">
{{- end}}
</div>
{{- end}}
`))

type galleryImage struct {
	Src string
	Alt string
}

type gallerySection struct {
	Title  string
	Images []galleryImage
}

// renderFixedHTML returns the annotated document. Every sentence is followed
// by a sequentially numbered marker placed at its end offset, so repeated
// sentences each receive their own number.
func renderFixedHTML(doc *Document) (string, error) {
	paragraphs := make([]template.HTML, 0, len(doc.Paragraphs))
	n := 1
	for _, p := range doc.Paragraphs {
		var b strings.Builder
		cursor := p.Start
		for _, s := range p.Sentences {
			b.WriteString(template.HTMLEscapeString(doc.Text[cursor:s.End]))
			fmt.Fprintf(&b, ` <span style="color:red;">[%d]</span>`, n)
			n++
			cursor = s.End
		}
		b.WriteString(template.HTMLEscapeString(doc.Text[cursor:p.End]))
		paragraphs = append(paragraphs, template.HTML(b.String()))
	}

	var buf bytes.Buffer
	if err := fixedTmpl.Execute(&buf, paragraphs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderDynamicHTML returns the chart gallery. Image sources come from the
// same plan the chart writers used.
func renderDynamicHTML(plan []ChartRef, publicPath string, title func(Emotion) string) (string, error) {
	base := ""
	if publicPath != "" {
		base = strings.TrimRight(publicPath, "/") + "/"
	}

	var data struct {
		Overview []galleryImage
		Sections []gallerySection
	}
	sections := make(map[Emotion]int)

	for _, ref := range plan {
		img := galleryImage{Src: base + ref.File, Alt: chartAlt(ref)}
		if ref.Emotion == "" {
			data.Overview = append(data.Overview, img)
			continue
		}
		i, ok := sections[ref.Emotion]
		if !ok {
			i = len(data.Sections)
			sections[ref.Emotion] = i
			data.Sections = append(data.Sections, gallerySection{Title: title(ref.Emotion)})
		}
		data.Sections[i].Images = append(data.Sections[i].Images, img)
	}

	var buf bytes.Buffer
	if err := dynamicTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func chartAlt(ref ChartRef) string {
	switch ref.Kind {
	case PieChart:
		return "Gráfico de pizza de sentimentos"
	case BarChart:
		return "Gráfico de barras de sentimentos"
	case ScoreChart:
		return "Gráfico de linhas para " + ref.Emotion.DisplayName()
	case DistributionChart:
		return "Distribuição para " + ref.Emotion.DisplayName()
	}
	return ref.File
}
