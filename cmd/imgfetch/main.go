package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/srihari-humbarwadi/imgfetch/internal/config"
	"github.com/srihari-humbarwadi/imgfetch/internal/download"
	"github.com/srihari-humbarwadi/imgfetch/internal/fetch"
	"github.com/srihari-humbarwadi/imgfetch/internal/input"
	"github.com/srihari-humbarwadi/imgfetch/internal/report"
	"github.com/srihari-humbarwadi/imgfetch/internal/store"
)

func main() {
	var (
		configFlag       = flag.String("config", "", "Path to a JSON or YAML config file")
		textFileFlag     = flag.String("input-text-file", "", "Text file containing one URL on each line")
		csvFileFlag      = flag.String("input-csv-file", "", "CSV file containing image URLs")
		columnFlag       = flag.String("column-name", "image_url", "Column containing image URLs in the CSV file")
		outputFlag       = flag.String("output-folder", "images", "Folder to save downloaded images in")
		maxImagesFlag    = flag.Int("max-images", 0, "Number of images to download, all if <= 0")
		shuffleFlag      = flag.Bool("shuffle-urls", false, "Shuffle URLs before applying -max-images")
		maxWorkersFlag   = flag.Int("max-workers", 1, "Maximum number of concurrent download workers")
		maxAttemptsFlag  = flag.Int("max-attempts", 5, "Attempts before a URL is marked as failed")
		sleepFlag        = flag.Float64("sleep-time", 1, "Seconds to wait before each attempt")
		minSleepFlag     = flag.Float64("min-sleep-time", 0, "Minimum randomized wait in seconds")
		maxSleepFlag     = flag.Float64("max-sleep-time", 5, "Maximum randomized wait in seconds")
		randomSleepFlag  = flag.Bool("random-sleep-time", false, "Randomize the wait between min and max sleep time")
		maxDimensionFlag = flag.Int("max-dimension", 0, "Downscale images so no side exceeds this, 0 keeps the original size")
		debugFlag        = flag.Bool("debug", false, "Log debug information")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	settings, err := config.Load(*configFlag)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	settings.ApplyEnv()

	// Explicitly set flags win over both the config file and the
	// environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input-text-file":
			settings.InputTextFile = *textFileFlag
		case "input-csv-file":
			settings.InputCSVFile = *csvFileFlag
		case "column-name":
			settings.ColumnName = *columnFlag
		case "output-folder":
			settings.OutputFolder = *outputFlag
		case "max-images":
			settings.MaxImages = *maxImagesFlag
		case "shuffle-urls":
			settings.ShuffleURLs = *shuffleFlag
		case "max-workers":
			settings.MaxWorkers = *maxWorkersFlag
		case "max-attempts":
			settings.MaxAttempts = *maxAttemptsFlag
		case "sleep-time":
			settings.SleepTime = *sleepFlag
		case "min-sleep-time":
			settings.MinSleepTime = *minSleepFlag
		case "max-sleep-time":
			settings.MaxSleepTime = *maxSleepFlag
		case "random-sleep-time":
			settings.RandomSleepTime = *randomSleepFlag
		case "max-dimension":
			settings.MaxDimension = *maxDimensionFlag
		case "debug":
			settings.Debug = *debugFlag
		}
	})

	if settings.Debug {
		log.SetLevel(logrus.DebugLevel)
		log.Debug("logging debug messages")
	}

	if err := settings.Validate(); err != nil {
		if errors.Is(err, config.ErrNoInputSource) {
			flag.Usage()
		}
		log.WithError(err).Fatal("invalid configuration")
	}

	urls, err := readURLs(settings)
	if err != nil {
		log.WithError(err).Fatal("reading urls")
	}
	urls = input.Limit(urls, settings.MaxImages, settings.ShuffleURLs)
	log.Warnf("downloading %d urls", len(urls))

	sink := store.NewFileSink()
	sink.MaxDimension = settings.MaxDimension

	policy := settings.ToRetryPolicy()
	log.Warnf("setting timeout=%s per url", policy.Timeout())

	dispatcher := download.NewDispatcher(download.Options{
		Workers:      settings.MaxWorkers,
		Policy:       policy,
		OutputFolder: settings.OutputFolder,
		Fetcher:      fetch.NewClient(),
		Sink:         sink,
		OnProgress:   progressLogger(log),
	})
	log.WithField("run_id", dispatcher.RunID()).Debug("created dispatcher")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("interrupted, cancelling...")
		cancel()
	}()

	start := time.Now()
	results, runErr := dispatcher.Run(ctx, urls)
	elapsed := time.Since(start)

	succeeded, failed := report.Summarize(results)
	if len(failed) > 0 {
		if err := report.WriteFailed(settings.FailedURLsPath, failed); err != nil {
			log.WithError(err).Error("writing failed-url report")
		}
		log.Warnf("failed downloading %d urls, dumping failed urls at %q", len(failed), settings.FailedURLsPath)
	} else {
		log.Infof("successfully downloaded %d urls in %s", succeeded, report.FormatDuration(elapsed))
	}

	if runErr != nil {
		log.WithError(runErr).Fatal("run cancelled")
	}
}

// readURLs loads the URL list from whichever input source is configured.
// The text file takes precedence when both are set.
func readURLs(settings *config.Settings) ([]string, error) {
	if settings.InputTextFile != "" {
		return input.FromTextFile(settings.InputTextFile)
	}
	return input.FromCSVFile(settings.InputCSVFile, settings.ColumnName)
}

// progressLogger maps dispatcher progress events onto logrus levels.
func progressLogger(log *logrus.Logger) func(download.ProgressEvent) {
	return func(e download.ProgressEvent) {
		entry := log.WithField("url", e.URL)
		switch e.Level {
		case download.LevelDebug:
			entry.Debug(e.Message)
		case download.LevelWarning:
			entry.Warn(e.Message)
		case download.LevelError:
			entry.Error(e.Message)
		default:
			entry.Info(e.Message)
		}
	}
}
