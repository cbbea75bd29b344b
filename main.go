package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/cwarden/dmarc-report-viewer/internal/config"
	"github.com/cwarden/dmarc-report-viewer/internal/ingest"
	"github.com/cwarden/dmarc-report-viewer/internal/mailsource"
	"github.com/cwarden/dmarc-report-viewer/internal/server"
	"github.com/cwarden/dmarc-report-viewer/internal/state"
)

func main() {
	debug := flag.Bool("debug", false, "Print debug output")
	configFile := flag.String("config", "", "Config file to use")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		logger.SetFormatter(log.LogfmtFormatter)
	}

	if *configFile == "" {
		logger.Fatal("please supply a config file")
	}

	// set some defaults
	defaults := config.Configuration{
		FetchInterval: config.Duration{
			Duration: 30 * time.Minute,
		},
		HTTPListen: "127.0.0.1:8080",
		IMAP: config.IMAPConfig{
			Port:   993,
			Folder: "INBOX",
			SSL:    true,
			Timeout: config.Duration{
				Duration: 30 * time.Second,
			},
		},
	}

	settings, err := config.GetConfig(defaults, *configFile)
	if err != nil {
		logger.Fatal("could not read config", "file", *configFile, "err", err)
	}

	// trap SIGINT/SIGTERM and cancel the context
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(c)
		cancel()
	}()

	go func() {
		<-c
		logger.Info("shutdown signal received")
		cancel()
	}()

	if err := run(ctx, settings, logger); err != nil {
		logger.Fatal("fatal error", "err", err)
	}
}

func run(ctx context.Context, settings *config.Configuration, logger *log.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := state.NewStore()
	source := mailsource.New(settings.IMAP, logger.WithPrefix("imap"))
	runner := ingest.NewRunner(source, store, settings.FetchInterval.Duration, logger.WithPrefix("ingest"))
	srv := server.New(settings.HTTPListen, store, logger.WithPrefix("http"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "err", err)
			// without the read side there is no point in ingesting
			cancel()
		}
	}()

	runner.Run(ctx)
	wg.Wait()
	return nil
}
