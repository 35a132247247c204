package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/emotext"
)

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.WithError(err).Error("emotext failed")
		if errors.Is(err, emotext.ErrInvalidInput) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := defaultConfig()

	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to a YAML config file; flags override its values")
	fs.StringVar(&cfg.InputPath, "in", cfg.InputPath, "Text file to analyse ('-' or empty reads stdin)")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Directory for charts and HTML fragments")
	fs.StringVar(&cfg.PublicPath, "public-path", cfg.PublicPath, "URL prefix of the output directory in the chart gallery")
	fs.StringVar(&cfg.Language, "lang", cfg.Language, "Corpus language: pt, en, es or fr")
	fs.StringVar(&cfg.CorpusPath, "corpus", cfg.CorpusPath, "External lexicon JSON (default: bundled Portuguese lexicon)")
	fs.StringVar(&cfg.ModelDir, "model", cfg.ModelDir, "Load a trained model from this directory instead of training")
	fs.StringVar(&cfg.SaveModelDir, "save-model", cfg.SaveModelDir, "Write the trained model to this directory")
	fs.IntVar(&cfg.EvaluateFolds, "evaluate", cfg.EvaluateFolds, "Cross-validate the lexicon with this many folds")
	fs.Float64Var(&cfg.OutlierMultiplier, "outlier-multiplier", cfg.OutlierMultiplier, "IQR multiplier for outlier fences")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  %s [flags]\n\nFlags:\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "\nExamples:")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/emotext -in texto.txt -out static/generated")
		fmt.Fprintln(fs.Output(), "  go run ./cmd/emotext -evaluate 5")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Values from the config file sit between the defaults and the flags,
	// so parse the flags a second time on top of it.
	if cfg.ConfigPath != "" {
		path := cfg.ConfigPath
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
		cfg.ConfigPath = path
	}

	normalizeConfig(&cfg)
	return cfg, nil
}

func newLogger(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func run(ctx context.Context, cfg Config, logger *logrus.Logger, stdin io.Reader, stdout io.Writer) error {
	lang := emotext.Language(cfg.Language)

	opts := []emotext.AnalyzerOpt{
		emotext.WithOutputDir(cfg.OutputDir),
		emotext.WithPublicPath(cfg.PublicPath),
		emotext.WithLanguage(lang),
		emotext.WithLogger(logger),
		emotext.WithOutlierMultiplier(cfg.OutlierMultiplier),
	}
	if cfg.CorpusPath != "" {
		opts = append(opts, emotext.WithCorpusPath(cfg.CorpusPath))
	}
	if cfg.ModelDir != "" {
		model, err := emotext.ModelFromDisk(cfg.ModelDir)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		opts = append(opts, emotext.WithModel(model))
	}

	if cfg.EvaluateFolds > 0 {
		if err := evaluate(ctx, cfg, lang, stdout); err != nil {
			return err
		}
	}

	analyzer, err := emotext.NewAnalyzer(opts...)
	if err != nil {
		return err
	}

	if cfg.SaveModelDir != "" {
		model, err := analyzer.Model()
		if err != nil {
			return err
		}
		if err := model.Write(cfg.SaveModelDir); err != nil {
			return fmt.Errorf("save model: %w", err)
		}
		fmt.Fprintf(stdout, "model_written=%s vocabulary=%d\n", cfg.SaveModelDir, model.Vocabulary().Len())
	}

	if !cfg.analyze() {
		return nil
	}

	text, err := readInput(cfg.InputPath, stdin)
	if err != nil {
		return err
	}

	res, err := analyzer.Execute(ctx, text)
	if err != nil {
		return err
	}

	if err := writeArtifacts(cfg.OutputDir, res); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "timestamp=%s paragraphs=%d sentences=%d charts=%d out_dir=%s\n",
		res.Timestamp, res.NumParagraphs, res.NumSentences, len(res.Charts), cfg.OutputDir)
	return nil
}

func evaluate(ctx context.Context, cfg Config, lang emotext.Language, stdout io.Writer) error {
	var (
		corpus *emotext.Corpus
		err    error
	)
	if cfg.CorpusPath != "" {
		corpus, err = emotext.LoadCorpusFile(cfg.CorpusPath, lang)
	} else {
		corpus, err = emotext.LoadCorpus(lang)
	}
	if err != nil {
		return err
	}

	res, err := emotext.CrossValidate(ctx, corpus, cfg.EvaluateFolds)
	if err != nil {
		return err
	}
	for _, f := range res.FoldResults {
		fmt.Fprintf(stdout, "fold=%d size=%d correct=%d accuracy=%.3f\n", f.Fold, f.Size, f.Correct, f.Accuracy)
	}
	fmt.Fprintf(stdout, "mean_accuracy=%.3f std_accuracy=%.3f\n", res.MeanAccuracy, res.StdAccuracy)
	return nil
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "" || path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}
