// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

/*
orchestrator.go - Multi-Domain Sync Orchestrator

Coordinates one synchronization run across the selected PMS domains.
Domains run concurrently under a semaphore, each with its own timeout,
and each domain's outcome is isolated: one failing fetch never aborts
its siblings. The aggregate status is success when every selected
domain succeeded, partial when some did, error when none did.

Only one run executes at a time. The most recent run is kept in memory
for the status endpoint; durable run history is out of scope here.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lodgelink/lodgelink/internal/config"
	"github.com/lodgelink/lodgelink/internal/logging"
	"github.com/lodgelink/lodgelink/internal/metrics"
	"github.com/lodgelink/lodgelink/internal/models"
	"github.com/lodgelink/lodgelink/internal/pms"
	"github.com/lodgelink/lodgelink/internal/store"
)

const (
	defaultConcurrency   = 6
	defaultDomainTimeout = 30 * time.Second
)

// ErrSyncInProgress is returned when a run is requested while another
// one is still executing.
var ErrSyncInProgress = errors.New("sync already in progress")

// Orchestrator coordinates sync runs against the upstream PMS.
type Orchestrator struct {
	client        pms.API
	store         store.Store
	concurrency   int
	domainTimeout time.Duration
	interval      time.Duration
	enabled       bool

	running sync.Mutex // held for the duration of one run

	mu       sync.RWMutex
	lastRun  *models.SyncRun
	lastSync time.Time // completion time of the last non-error run
}

// NewOrchestrator creates a sync orchestrator.
func NewOrchestrator(client pms.API, st store.Store, cfg config.SyncConfig) *Orchestrator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	domainTimeout := cfg.DomainTimeout
	if domainTimeout <= 0 {
		domainTimeout = defaultDomainTimeout
	}
	return &Orchestrator{
		client:        client,
		store:         st,
		concurrency:   concurrency,
		domainTimeout: domainTimeout,
		interval:      cfg.Interval,
		enabled:       cfg.Enabled,
	}
}

// Run executes one sync over the selected domains and returns the run
// report. The report is always non-nil; the error is non-nil only for
// orchestrator-level failures (nothing selected, upstream unreachable,
// a run already in progress), in which case no domain succeeded.
func (o *Orchestrator) Run(ctx context.Context, selection models.DomainSelection) (*models.SyncRun, error) {
	selected := selection.Selected()
	run := &models.SyncRun{
		ID:               uuid.New().String(),
		RequestedDomains: selected,
		Domains:          make(map[models.SyncDomain]*models.DomainResult, len(selected)),
		Status:           models.SyncStatusRunning,
		StartedAt:        time.Now().UTC(),
	}

	if len(selected) == 0 {
		run.Error = "no domains selected"
		run.Finalize(time.Now().UTC())
		o.recordRun(run)
		return run, errors.New("no domains selected")
	}

	if !o.running.TryLock() {
		run.Error = ErrSyncInProgress.Error()
		run.Status = models.SyncStatusError
		return run, ErrSyncInProgress
	}
	defer o.running.Unlock()

	logging.Info().Str("run_id", run.ID).Interface("domains", selected).Msg("Starting sync run")

	// Connectivity gate. A dead upstream fails the run up front instead
	// of producing one timeout per domain.
	if basic := o.client.TestBasicConnection(ctx); !basic.Success {
		for _, domain := range selected {
			run.Domains[domain] = &models.DomainResult{
				Domain: domain,
				Status: models.DomainStatusSkipped,
				Error:  basic.Message,
			}
		}
		run.Error = fmt.Sprintf("connectivity check failed: %s", basic.Message)
		run.Finalize(time.Now().UTC())
		o.recordRun(run)
		metrics.SyncRunsTotal.WithLabelValues(string(run.Status)).Inc()
		logging.Error().Str("run_id", run.ID).Str("reason", basic.Message).Msg("Sync run aborted, PMS unreachable")
		return run, fmt.Errorf("%w: %s", pms.ErrPMSUnavailable, basic.Message)
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, o.concurrency)
		mu  sync.Mutex // guards run.Domains
	)

	for _, domain := range selected {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// A canceled run marks domains that never started as skipped
			// rather than charging them a timeout.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				run.Domains[domain] = &models.DomainResult{
					Domain: domain,
					Status: models.DomainStatusSkipped,
					Error:  ctx.Err().Error(),
				}
				mu.Unlock()
				return
			}

			result := o.syncDomain(ctx, domain)
			mu.Lock()
			run.Domains[domain] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	run.Finalize(time.Now().UTC())
	o.recordRun(run)
	metrics.SyncRunsTotal.WithLabelValues(string(run.Status)).Inc()

	logging.Info().
		Str("run_id", run.ID).
		Str("status", string(run.Status)).
		Int64("duration_ms", run.DurationMS).
		Msg("Sync run complete")
	return run, nil
}

// syncDomain runs one domain's fetch-and-upsert under its own timeout.
func (o *Orchestrator) syncDomain(ctx context.Context, domain models.SyncDomain) *models.DomainResult {
	syncer, ok := domainSyncers[domain]
	if !ok {
		return &models.DomainResult{
			Domain: domain,
			Status: models.DomainStatusFailed,
			Error:  fmt.Sprintf("no syncer registered for domain %q", domain),
		}
	}

	domainCtx, cancel := context.WithTimeout(ctx, o.domainTimeout)
	defer cancel()

	start := time.Now()
	count, err := syncer(domainCtx, o.client, o.store)
	elapsed := time.Since(start)
	metrics.SyncDomainDuration.WithLabelValues(string(domain)).Observe(elapsed.Seconds())

	result := &models.DomainResult{
		Domain:        domain,
		RecordsSynced: count,
		DurationMS:    elapsed.Milliseconds(),
	}

	if err != nil {
		result.Status = models.DomainStatusFailed
		result.Error = err.Error()
		metrics.SyncDomainErrors.WithLabelValues(string(domain)).Inc()
		logging.Warn().Str("domain", string(domain)).Err(err).Msg("Domain sync failed")
		return result
	}

	result.Status = models.DomainStatusSuccess
	metrics.SyncDomainRecords.WithLabelValues(string(domain)).Add(float64(count))
	logging.Debug().Str("domain", string(domain)).Int("records", count).Dur("elapsed", elapsed).Msg("Domain sync complete")
	return result
}

func (o *Orchestrator) recordRun(run *models.SyncRun) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lastRun = run
	if run.Status == models.SyncStatusSuccess || run.Status == models.SyncStatusPartial {
		o.lastSync = run.CompletedAt
	}
}

// LastRun returns the most recent run report, or nil before the first run.
func (o *Orchestrator) LastRun() *models.SyncRun {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastRun
}

// LastSyncTime returns the completion time of the last run that synced
// at least one domain. Zero before any such run.
func (o *Orchestrator) LastSyncTime() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastSync
}

// Serve runs periodic full syncs until ctx is canceled. Implements
// suture.Service so the orchestrator slots into the supervision tree.
// When periodic sync is disabled it blocks until shutdown, leaving runs
// to explicit API requests.
func (o *Orchestrator) Serve(ctx context.Context) error {
	if !o.enabled || o.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", o.interval).Msg("Periodic sync enabled")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := o.Run(ctx, models.FullSelection()); err != nil {
				logging.Warn().Err(err).Msg("Periodic sync run failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (o *Orchestrator) String() string {
	return "sync-orchestrator"
}
