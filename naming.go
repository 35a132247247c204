package emotext

import "fmt"

// ChartKind identifies one of the generated charts.
type ChartKind string

const (
	ScoreChart        ChartKind = "score"
	DistributionChart ChartKind = "distribution"
	PieChart          ChartKind = "pie_chart"
	BarChart          ChartKind = "bar_chart"
)

// A ChartRef names one chart of a run. Emotion is empty for the aggregate
// pie and bar charts.
type ChartRef struct {
	Kind    ChartKind
	Emotion Emotion
	File    string
}

// ChartFileName returns the file name for a chart of the run identified by
// token. Chart writers and the HTML gallery both call it, so the two cannot
// drift apart.
func ChartFileName(kind ChartKind, emotion Emotion, token string) string {
	switch kind {
	case ScoreChart, DistributionChart:
		return fmt.Sprintf("%s_%s_%s.png", emotion, kind, token)
	default:
		return fmt.Sprintf("%s_%s.png", kind, token)
	}
}

// ChartPlan lists every chart a run produces, in gallery order: the two
// aggregate charts, then a score and a distribution chart per emotion.
func ChartPlan(token string) []ChartRef {
	plan := []ChartRef{
		{Kind: PieChart, File: ChartFileName(PieChart, "", token)},
		{Kind: BarChart, File: ChartFileName(BarChart, "", token)},
	}
	for _, e := range Emotions {
		plan = append(plan,
			ChartRef{Kind: ScoreChart, Emotion: e, File: ChartFileName(ScoreChart, e, token)},
			ChartRef{Kind: DistributionChart, Emotion: e, File: ChartFileName(DistributionChart, e, token)},
		)
	}
	return plan
}
