package emotext

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ChartSize is the width and height of a rendered chart.
type ChartSize struct {
	Width  vg.Length
	Height vg.Length
}

var defaultChartSizes = map[ChartKind]ChartSize{
	ScoreChart:        {10 * vg.Inch, 4 * vg.Inch},
	DistributionChart: {10 * vg.Inch, 4 * vg.Inch},
	PieChart:          {8 * vg.Inch, 8 * vg.Inch},
	BarChart:          {10 * vg.Inch, 6 * vg.Inch},
}

var (
	markerColor  = color.Gray{Y: 128}
	boundColor   = color.RGBA{R: 200, G: 120, A: 255}
	outlierColor = color.RGBA{R: 220, A: 255}
	barColor     = color.RGBA{R: 128, B: 128, A: 255}
	dashes       = []vg.Length{vg.Points(4), vg.Points(4)}
)

// chartData is everything a run's charts are drawn from.
type chartData struct {
	series   ScoreSeries
	ends     []int
	shapes   map[Emotion]Shape
	outliers map[Emotion]Outliers
}

// chartRenderer draws PNG charts with gonum/plot.
type chartRenderer struct {
	sizes map[ChartKind]ChartSize
	title cases.Caser
}

func newChartRenderer(sizes map[ChartKind]ChartSize) *chartRenderer {
	merged := make(map[ChartKind]ChartSize, len(defaultChartSizes))
	for k, v := range defaultChartSizes {
		merged[k] = v
	}
	for k, v := range sizes {
		merged[k] = v
	}
	return &chartRenderer{sizes: merged, title: cases.Title(language.BrazilianPortuguese)}
}

// render draws the chart described by ref into path.
func (cr *chartRenderer) render(ref ChartRef, path string, d *chartData) error {
	var (
		p   *plot.Plot
		err error
	)
	switch ref.Kind {
	case ScoreChart:
		p, err = cr.scorePlot(ref.Emotion, d.series.Emotion(ref.Emotion), d.ends)
	case DistributionChart:
		p, err = cr.distributionPlot(ref.Emotion, d.series.Emotion(ref.Emotion), d.shapes[ref.Emotion], d.outliers[ref.Emotion])
	case PieChart:
		p = cr.piePlot(meanScores(d.series))
	case BarChart:
		p, err = cr.barPlot(sumScores(d.series))
	default:
		err = fmt.Errorf("unknown chart kind %q", ref.Kind)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, ref.File, err)
	}

	size := cr.sizes[ref.Kind]
	if err := p.Save(size.Width, size.Height, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrRender, ref.File, err)
	}
	return nil
}

func (cr *chartRenderer) displayName(e Emotion) string {
	return cr.title.String(e.DisplayName())
}

func (cr *chartRenderer) scorePlot(e Emotion, scores []float64, ends []int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Evolução da Pontuação: " + cr.displayName(e)
	p.X.Label.Text = "Contagem de frases"
	p.Y.Label.Text = "Pontuações"
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = true

	if len(scores) == 0 {
		p.Title.Text += " (sem dados)"
		return p, nil
	}

	pts := make(plotter.XYs, len(scores))
	for i, v := range scores {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = plotutil.Color(e.Index())
	p.Add(line)
	p.Legend.Add(e.DisplayName()+" pontuações", line)

	// Markers sit halfway between the last sentence of a paragraph and the
	// first of the next one.
	for i, end := range ends {
		x := float64(end) + 0.5
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: 1}})
		if err != nil {
			return nil, err
		}
		marker.LineStyle.Color = markerColor
		marker.LineStyle.Dashes = dashes
		p.Add(marker)
		if i == 0 {
			p.Legend.Add("Fim do Parágrafo", marker)
		}
	}
	return p, nil
}

func (cr *chartRenderer) distributionPlot(e Emotion, scores []float64, shape Shape, out Outliers) (*plot.Plot, error) {
	if shape == "" {
		shape = AnalyzeShape(scores)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribuição: %s (%s)", cr.displayName(e), shape.DisplayName())
	p.X.Label.Text = "Pontuação"
	p.Y.Label.Text = "Densidade"
	p.Legend.Top = true

	if len(scores) == 0 {
		p.Title.Text += " (sem dados)"
		return p, nil
	}

	mean, std := stat.MeanStdDev(scores, nil)
	top := 1.0

	if len(scores) >= 2 && std > 1e-12 {
		bins := int(math.Ceil(math.Sqrt(float64(len(scores)))))
		hist, err := plotter.NewHist(plotter.Values(scores), bins)
		if err != nil {
			return nil, err
		}
		hist.Normalize(1)
		hist.FillColor = color.RGBA{R: 120, G: 160, B: 220, A: 180}
		p.Add(hist)
		p.Legend.Add("Histograma", hist)

		normal := distuv.Normal{Mu: mean, Sigma: std}
		curve := plotter.NewFunction(normal.Prob)
		curve.Samples = 200
		curve.LineStyle.Width = vg.Points(1.5)
		curve.LineStyle.Color = plotutil.Color(e.Index())
		p.Add(curve)
		p.Legend.Add("Normal ajustada", curve)

		top = normal.Prob(mean)
		for _, bin := range hist.Bins {
			top = math.Max(top, bin.Weight)
		}
	}

	// The curve is a function plotter with no data range, so the x axis
	// is fixed from the data and the fences.
	lo := math.Min(floats.Min(scores), out.Lower)
	hi := math.Max(floats.Max(scores), out.Upper)
	if std > 1e-12 {
		lo = math.Min(lo, mean-3*std)
		hi = math.Max(hi, mean+3*std)
	}
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = 0, top*1.1

	for i, bound := range []float64{out.Lower, out.Upper} {
		l, err := plotter.NewLine(plotter.XYs{{X: bound, Y: 0}, {X: bound, Y: top}})
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = boundColor
		l.LineStyle.Dashes = dashes
		p.Add(l)
		if i == 0 {
			p.Legend.Add(fmt.Sprintf("Limites [%.3f, %.3f]", out.Lower, out.Upper), l)
		}
	}

	pts := make(plotter.XYs, len(scores))
	for i, v := range scores {
		pts[i].X, pts[i].Y = v, 0
	}
	points, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	points.GlyphStyle.Radius = vg.Points(2)
	p.Add(points)

	if len(out.Values) > 0 {
		opts := make(plotter.XYs, len(out.Values))
		for i, v := range out.Values {
			opts[i].X, opts[i].Y = v, 0
		}
		flagged, err := plotter.NewScatter(opts)
		if err != nil {
			return nil, err
		}
		flagged.GlyphStyle.Color = outlierColor
		flagged.GlyphStyle.Radius = vg.Points(4)
		flagged.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(flagged)
		p.Legend.Add(fmt.Sprintf("Outliers (%d)", len(out.Values)), flagged)
	}

	return p, nil
}

func (cr *chartRenderer) piePlot(means Scores) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Proporção de Cada Sentimento"
	p.HideAxes()

	labels := make([]string, NumEmotions)
	for i, e := range Emotions {
		labels[i] = e.DisplayName()
	}
	p.Add(pieSlices{values: means[:], labels: labels, style: p.Legend.TextStyle})
	return p
}

func (cr *chartRenderer) barPlot(sums Scores) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Frequência de Emoções Detectadas"
	p.X.Label.Text = "Emoção"
	p.Y.Label.Text = "Frequência"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(sums[:]), vg.Points(40))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Color = color.Black
	p.Add(bars)

	names := make([]string, NumEmotions)
	for i, e := range Emotions {
		names[i] = e.DisplayName()
	}
	p.NominalX(names...)
	return p, nil
}

// pieSlices draws a pie chart; gonum/plot has no pie plotter.
type pieSlices struct {
	values []float64
	labels []string
	style  text.Style
}

// pieStart is where the first slice begins, measured counterclockwise.
const pieStart = 140 * math.Pi / 180

func (ps pieSlices) Plot(c draw.Canvas, _ *plot.Plot) {
	center := vg.Point{X: (c.Min.X + c.Max.X) / 2, Y: (c.Min.Y + c.Max.Y) / 2}
	radius := vg.Length(math.Min(float64(c.Max.X-c.Min.X), float64(c.Max.Y-c.Min.Y))) * 0.35

	sty := ps.style
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	total := floats.Sum(ps.values)
	if total <= 0 {
		c.FillText(sty, center, "sem dados")
		return
	}

	start := pieStart
	for i, v := range ps.values {
		if v <= 0 {
			continue
		}
		angle := 2 * math.Pi * v / total

		var wedge vg.Path
		wedge.Move(center)
		wedge.Arc(center, radius, start, angle)
		wedge.Close()
		c.SetColor(plotutil.Color(i))
		c.Fill(wedge)

		mid := start + angle/2
		at := vg.Point{
			X: center.X + radius*1.2*vg.Length(math.Cos(mid)),
			Y: center.Y + radius*1.2*vg.Length(math.Sin(mid)),
		}
		c.FillText(sty, at, fmt.Sprintf("%s %.1f%%", ps.labels[i], 100*v/total))
		start += angle
	}
}

func meanScores(series ScoreSeries) Scores {
	sums := sumScores(series)
	if len(series) == 0 {
		return sums
	}
	for i := range sums {
		sums[i] /= float64(len(series))
	}
	return sums
}

func sumScores(series ScoreSeries) Scores {
	var sums Scores
	for _, s := range series {
		for i, v := range s {
			sums[i] += v
		}
	}
	return sums
}
