package emotext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// An AnalyzerOpt represents a setting that changes how an Analyzer is built.
//
// For example, it might change where charts are written:
//
//	a, err := emotext.NewAnalyzer(emotext.WithOutputDir("./static/generated"))
type AnalyzerOpt func(opts *AnalyzerOpts)

// AnalyzerOpts controls the Analyzer creation process:
type AnalyzerOpts struct {
	OutputDir         string                  // Directory charts are written to
	PublicPath        string                  // URL prefix of OutputDir in the HTML gallery
	Language          Language                // Corpus and segmentation language
	CorpusPath        string                  // External lexicon file; empty uses the bundled one
	Corpus            *Corpus                 // Preloaded lexicon, takes precedence over CorpusPath
	Model             *Model                  // Pretrained model; skips corpus training entirely
	Logger            *logrus.Logger          // Logger to use
	OutlierMultiplier float64                 // Tukey fence multiplier
	ChartSizes        map[ChartKind]ChartSize // Per-kind chart size overrides
	Clock             func() time.Time        // Time source for run tokens
}

// WithOutputDir sets the chart output directory.
func WithOutputDir(dir string) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.OutputDir = dir
	}
}

// WithPublicPath sets the URL prefix used for chart images.
func WithPublicPath(prefix string) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.PublicPath = prefix
	}
}

// WithLanguage sets the analysis language.
func WithLanguage(lang Language) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Language = lang
	}
}

// WithCorpusPath trains on an external lexicon file.
func WithCorpusPath(path string) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.CorpusPath = path
	}
}

// WithCorpus trains on an already loaded lexicon.
func WithCorpus(corpus *Corpus) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Corpus = corpus
	}
}

// WithModel uses a pretrained model.
func WithModel(model *Model) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Model = model
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Logger = logger
	}
}

// WithOutlierMultiplier sets the Tukey fence multiplier.
func WithOutlierMultiplier(k float64) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.OutlierMultiplier = k
	}
}

// WithChartSize overrides the size of one chart kind.
func WithChartSize(kind ChartKind, size ChartSize) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		if opts.ChartSizes == nil {
			opts.ChartSizes = make(map[ChartKind]ChartSize)
		}
		opts.ChartSizes[kind] = size
	}
}

// WithClock sets the time source used for run tokens.
func WithClock(now func() time.Time) AnalyzerOpt {
	return func(opts *AnalyzerOpts) {
		opts.Clock = now
	}
}

func defaultAnalyzerOpts() AnalyzerOpts {
	return AnalyzerOpts{
		OutputDir:         filepath.FromSlash("static/generated"),
		PublicPath:        "/static/generated/",
		Language:          Portuguese,
		Logger:            logrus.StandardLogger(),
		OutlierMultiplier: DefaultOutlierMultiplier,
		Clock:             time.Now,
	}
}

// Result is the artifact set of one analysis run.
type Result struct {
	HTMLFixed     string
	HTMLDynamic   string
	NumParagraphs int
	NumSentences  int
	Timestamp     string // Run token; also part of every chart file name
	CreatedAt     time.Time

	OutputDir     string
	Charts        []ChartRef
	Sentences     []Sentence
	ParagraphEnds []int
	Scores        ScoreSeries
	Shapes        map[Emotion]Shape
	Outliers      map[Emotion]Outliers
	Language      DetectedLanguage
}

// ChartPaths returns the on-disk path of every chart of the run.
func (r *Result) ChartPaths() []string {
	paths := make([]string, len(r.Charts))
	for i, ref := range r.Charts {
		paths[i] = filepath.Join(r.OutputDir, ref.File)
	}
	return paths
}

// Analyzer runs the emotion pipeline. One Analyzer may serve many requests:
// runs are serialised, and the classifier is trained at most once.
type Analyzer struct {
	opts      AnalyzerOpts
	log       *logrus.Entry
	segmenter *Segmenter
	renderer  *chartRenderer

	trainMu    sync.Mutex
	model      *Model
	trainErr   error
	trainCount int

	runMu sync.Mutex
	last  *Result
}

// NewAnalyzer creates an Analyzer according to the user-specified options.
// The output directory is created if needed. The classifier is not trained
// until the first analysis or an explicit EnsureTrained call.
func NewAnalyzer(opts ...AnalyzerOpt) (*Analyzer, error) {
	base := defaultAnalyzerOpts()
	for _, applyOpt := range opts {
		applyOpt(&base)
	}
	if base.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}
	if base.OutlierMultiplier <= 0 {
		return nil, fmt.Errorf("outlier multiplier must be positive, got %v", base.OutlierMultiplier)
	}

	if err := os.MkdirAll(base.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	segmenter, err := NewSegmenter(base.Language)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		opts:      base,
		log:       base.Logger.WithField("component", "emotext"),
		segmenter: segmenter,
		renderer:  newChartRenderer(base.ChartSizes),
		model:     base.Model,
	}, nil
}

// EnsureTrained trains the classifier if it has not been trained yet. It is
// idempotent and safe for concurrent use. A failed training is remembered and
// returned again on later calls without retrying.
func (a *Analyzer) EnsureTrained() error {
	a.trainMu.Lock()
	defer a.trainMu.Unlock()

	if a.model != nil {
		return nil
	}
	if a.trainErr != nil {
		return a.trainErr
	}

	start := time.Now()
	a.trainCount++

	model, err := a.train()
	if err != nil {
		if !errors.Is(err, ErrClassifierTraining) {
			err = fmt.Errorf("%w: %v", ErrClassifierTraining, err)
		}
		a.trainErr = err
		a.log.WithError(err).WithField("setup", true).Error("classifier training failed")
		return err
	}

	a.model = model
	a.log.WithFields(logrus.Fields{
		"vocabulary":     model.Vocabulary().Len(),
		"corpus_version": model.CorpusVersion,
		"elapsed":        time.Since(start).String(),
	}).Info("classifier trained")
	return nil
}

func (a *Analyzer) train() (*Model, error) {
	corpus := a.opts.Corpus
	if corpus == nil {
		var err error
		if a.opts.CorpusPath != "" {
			corpus, err = LoadCorpusFile(a.opts.CorpusPath, a.opts.Language)
		} else {
			corpus, err = LoadCorpus(a.opts.Language)
		}
		if err != nil {
			return nil, err
		}
	}
	return TrainModel(corpus)
}

// TrainCount returns how many times training was attempted.
func (a *Analyzer) TrainCount() int {
	a.trainMu.Lock()
	defer a.trainMu.Unlock()
	return a.trainCount
}

// Model returns the trained model, training it first if needed.
func (a *Analyzer) Model() (*Model, error) {
	if err := a.EnsureTrained(); err != nil {
		return nil, err
	}
	a.trainMu.Lock()
	defer a.trainMu.Unlock()
	return a.model, nil
}

// Classify scores a single sentence.
func (a *Analyzer) Classify(sentence string) (Scores, error) {
	model, err := a.Model()
	if err != nil {
		return Scores{}, err
	}
	return model.Classify(sentence), nil
}

// Reset clears the state derived from the previous run. The trained model
// is kept.
func (a *Analyzer) Reset() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.last = nil
}

// Deactivate releases per-run state before the analyzer is parked. Like
// Reset it keeps the trained model.
func (a *Analyzer) Deactivate() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.last = nil
	a.log.Debug("analyzer deactivated")
}

// LastResult returns the result of the most recent run, or nil after a
// Reset.
func (a *Analyzer) LastResult() *Result {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.last
}

// OutputDir returns the directory charts are written to.
func (a *Analyzer) OutputDir() string {
	return a.opts.OutputDir
}

func (a *Analyzer) newToken() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return a.opts.Clock().Format("20060102_150405") + "_" + id[:8]
}

// Execute analyses text and writes its charts. Empty text fails with
// ErrInvalidInput before any file is touched or the classifier is trained.
// Any chart failure fails the whole run with ErrRender and removes the charts
// already written for it.
func (a *Analyzer) Execute(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.last = nil

	if err := a.EnsureTrained(); err != nil {
		return nil, err
	}
	a.trainMu.Lock()
	model := a.model
	a.trainMu.Unlock()

	token := a.newToken()
	log := a.log.WithField("run", token)
	start := time.Now()

	doc := a.segmenter.Segment(text)
	sentences := doc.Sentences()

	series := make(ScoreSeries, 0, len(sentences))
	for _, s := range sentences {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		series = append(series, model.Classify(s.Text))
	}

	data := &chartData{
		series:   series,
		ends:     doc.ParagraphEnds(),
		shapes:   make(map[Emotion]Shape, NumEmotions),
		outliers: make(map[Emotion]Outliers, NumEmotions),
	}
	for _, e := range Emotions {
		scores := series.Emotion(e)
		data.shapes[e] = AnalyzeShape(scores)
		data.outliers[e] = DetectOutliers(scores, a.opts.OutlierMultiplier)
	}

	plan := ChartPlan(token)
	if err := a.writeCharts(ctx, plan, data); err != nil {
		log.WithError(err).Error("chart rendering failed")
		return nil, err
	}

	fixed, err := renderFixedHTML(doc)
	if err != nil {
		a.removeCharts(plan)
		return nil, fmt.Errorf("render document html: %w", err)
	}
	dynamic, err := renderDynamicHTML(plan, a.opts.PublicPath, a.renderer.displayName)
	if err != nil {
		a.removeCharts(plan)
		return nil, fmt.Errorf("render gallery html: %w", err)
	}

	result := &Result{
		HTMLFixed:     fixed,
		HTMLDynamic:   dynamic,
		NumParagraphs: len(doc.Paragraphs),
		NumSentences:  len(sentences),
		Timestamp:     token,
		CreatedAt:     a.opts.Clock(),
		OutputDir:     a.opts.OutputDir,
		Charts:        plan,
		Sentences:     sentences,
		ParagraphEnds: data.ends,
		Scores:        series,
		Shapes:        data.shapes,
		Outliers:      data.outliers,
		Language:      DetectLanguage(doc.Text),
	}
	a.last = result

	log.WithFields(logrus.Fields{
		"paragraphs": result.NumParagraphs,
		"sentences":  result.NumSentences,
		"language":   result.Language.Code,
		"elapsed":    time.Since(start).String(),
	}).Info("analysis complete")

	return result, nil
}

// writeCharts renders every chart of the plan, then checks that each file
// exists. On any failure the run's charts are removed.
func (a *Analyzer) writeCharts(ctx context.Context, plan []ChartRef, data *chartData) error {
	for _, ref := range plan {
		select {
		case <-ctx.Done():
			a.removeCharts(plan)
			return ctx.Err()
		default:
		}
		if err := a.renderer.render(ref, filepath.Join(a.opts.OutputDir, ref.File), data); err != nil {
			a.removeCharts(plan)
			return err
		}
	}

	for _, ref := range plan {
		if _, err := os.Stat(filepath.Join(a.opts.OutputDir, ref.File)); err != nil {
			a.removeCharts(plan)
			return fmt.Errorf("%w: %s was not written: %v", ErrRender, ref.File, err)
		}
	}
	return nil
}

func (a *Analyzer) removeCharts(plan []ChartRef) {
	for _, ref := range plan {
		err := os.Remove(filepath.Join(a.opts.OutputDir, ref.File))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			a.log.WithError(err).WithField("file", ref.File).Warn("could not remove chart")
		}
	}
}
