// Package ingest drives the fetch, extract, parse, aggregate, publish
// cycle on a fixed interval.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cwarden/dmarc-report-viewer/internal/dmarc"
	"github.com/cwarden/dmarc-report-viewer/internal/extract"
	"github.com/cwarden/dmarc-report-viewer/internal/mailsource"
	"github.com/cwarden/dmarc-report-viewer/internal/state"
	"github.com/cwarden/dmarc-report-viewer/internal/summary"
)

// MailSource yields the raw mails for one cycle or fails for the whole
// batch.
type MailSource interface {
	Fetch(ctx context.Context) ([]mailsource.Mail, error)
}

type Runner struct {
	source   MailSource
	store    *state.Store
	interval time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewRunner(source MailSource, store *state.Store, interval time.Duration, logger *log.Logger) *Runner {
	return &Runner{
		source:   source,
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one cycle immediately and then one per interval tick
// until ctx is cancelled. Cycles never overlap and cancellation is
// only observed between cycles, so a cycle that is already running
// finishes its publish before the loop exits.
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("starting first run", "interval", r.interval)
	if err := r.RunCycle(ctx); err != nil {
		r.logger.Error("cycle failed", "err", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down ingestion loop")
			return
		case <-ticker.C:
			// only log errors here so we keep the loop running
			if err := r.RunCycle(ctx); err != nil {
				r.logger.Error("cycle failed", "err", err)
			}
		}
	}
}

// RunCycle performs a single fetch, extract, parse, aggregate, publish
// pass. A fetch failure aborts before anything is touched; per-mail
// and per-payload failures are absorbed so the rest of the batch still
// makes it into the snapshot.
func (r *Runner) RunCycle(ctx context.Context) error {
	mails, err := r.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch mails: %w", err)
	}
	r.logger.Info("downloaded mails", "count", len(mails))

	var payloads [][]byte
	for _, m := range mails {
		if m.Body == nil {
			continue
		}
		files, err := extract.XMLFiles(m.Body)
		if err != nil {
			r.logger.Warn("could not extract xml files from mail", "uid", m.UID, "subject", m.Subject, "err", err)
			continue
		}
		payloads = append(payloads, files...)
	}
	r.logger.Info("extracted xml files", "count", len(payloads))

	var reports []dmarc.Report
	var xmlErrors []dmarc.XMLError
	for _, payload := range payloads {
		report, err := dmarc.Parse(payload)
		if err != nil {
			xmlErrors = append(xmlErrors, dmarc.XMLError{
				XML:   strings.ToValidUTF8(string(payload), "�"),
				Error: err.Error(),
			})
			continue
		}
		reports = append(reports, *report)
	}
	r.logger.Info("parsed reports", "count", len(reports))
	if len(xmlErrors) > 0 {
		r.logger.Warn("some xml files did not parse as reports", "count", len(xmlErrors))
	}

	now := r.now().Unix()

	mailInfos := make([]state.MailInfo, 0, len(mails))
	for _, m := range mails {
		mailInfos = append(mailInfos, state.MailInfo{
			UID:     m.UID,
			Subject: m.Subject,
			Size:    m.Size,
		})
	}

	sum := summary.New(len(mails), len(payloads), reports, len(xmlErrors), now)

	r.store.Replace(state.Snapshot{
		Mails:      mailInfos,
		Reports:    reports,
		XMLErrors:  xmlErrors,
		Summary:    sum,
		LastUpdate: now,
	})
	r.logger.Info("published snapshot", "reports", len(reports), "xml_errors", len(xmlErrors))

	return nil
}
