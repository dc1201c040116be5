package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feedsync/backend/internal/domain/catalog"
	"github.com/feedsync/backend/internal/domain/feed"
	"github.com/feedsync/backend/internal/domain/shopify"
	syncdomain "github.com/feedsync/backend/internal/domain/sync"
	"github.com/feedsync/backend/internal/infrastructure/logger"
)

// maxReportedWarnings bounds how many warnings a report carries; the rest
// are counted but dropped so a dirty feed cannot bloat run history.
const maxReportedWarnings = 50

// ClientFactory builds a Shopify client for one run's resolved credentials.
type ClientFactory func(cfg syncdomain.Config) shopify.Client

// Orchestrator drives a sync run end to end: fetch, parse, aggregate, map,
// diff and upsert. Stages before the diff are sequential; upserts run on a
// bounded worker pool while a single aggregator goroutine owns the report.
type Orchestrator struct {
	fetcher    feed.Fetcher
	parser     feed.Parser
	clients    ClientFactory
	runs       syncdomain.RunStore
	logger     *zap.Logger
	workers    int
	runTimeout time.Duration
}

func NewOrchestrator(
	fetcher feed.Fetcher,
	parser feed.Parser,
	clients ClientFactory,
	runs syncdomain.RunStore,
	logger *zap.Logger,
	workers int,
	runTimeout time.Duration,
) *Orchestrator {
	if workers <= 0 {
		workers = 4
	}
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}
	return &Orchestrator{
		fetcher:    fetcher,
		parser:     parser,
		clients:    clients,
		runs:       runs,
		logger:     logger,
		workers:    workers,
		runTimeout: runTimeout,
	}
}

// item is one unit of work for the upsert pool.
type item struct {
	externalID string
	title      string
	payload    shopify.ProductPayload
}

type itemStatus int

const (
	statusCreated itemStatus = iota
	statusUpdated
	statusSkipped
	statusFailed
	// statusDropped marks items excluded from the report counters after a
	// fatal abort: the item that triggered it and everything drained behind it.
	statusDropped
)

type itemResult struct {
	status itemStatus
	err    *syncdomain.ItemError
}

// Run executes one sync run with the given resolved credentials. Per-item
// failures are collected into the report and do not fail the run; a
// rejected admin token aborts the run and is returned as the run error.
func (o *Orchestrator) Run(ctx context.Context, cfg syncdomain.Config, opts syncdomain.Options) (*syncdomain.Report, error) {
	opts = opts.Normalize()
	report := &syncdomain.Report{
		RunID:     uuid.New().String(),
		Mode:      opts.Mode(),
		State:     syncdomain.StateInit,
		StartedAt: time.Now(),
	}

	runCtx, cancel := context.WithTimeout(ctx, o.runTimeout)
	defer cancel()

	runCtx, log := logger.WithRunID(runCtx, o.logger, report.RunID)
	log.Info("sync run started",
		zap.String("mode", string(report.Mode)),
		zap.Bool("testMode", opts.TestMode),
		zap.Int("maxProducts", opts.MaxProducts))

	err := o.execute(runCtx, cancel, cfg, opts, report, log)

	report.FinishedAt = time.Now()
	if err == nil && report.State != syncdomain.StateAborted {
		report.State = syncdomain.StateCompleted
	}
	o.persist(report, log)

	log.Info("sync run finished",
		zap.String("state", string(report.State)),
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration()))

	return report, err
}

func (o *Orchestrator) execute(
	runCtx context.Context,
	cancel context.CancelFunc,
	cfg syncdomain.Config,
	opts syncdomain.Options,
	report *syncdomain.Report,
	log *zap.Logger,
) error {
	report.State = syncdomain.StateConfiguring
	client := o.clients(cfg)

	report.State = syncdomain.StateFetching
	data, err := o.fetcher.Fetch(runCtx, cfg.FeedURL)
	if err != nil {
		report.State = syncdomain.StateFailed
		report.AbortReason = err.Error()
		return err
	}

	report.State = syncdomain.StateMapping
	stats, err := o.parser.Stats(data)
	if err != nil {
		report.State = syncdomain.StateFailed
		report.AbortReason = err.Error()
		return err
	}
	report.FeedProducts = stats.ProductCount
	report.FeedVariants = stats.VariantCount

	items, err := o.buildItems(data, opts, report)
	if err != nil {
		report.State = syncdomain.StateFailed
		report.AbortReason = err.Error()
		return err
	}

	report.State = syncdomain.StateDiffing
	remotes, err := client.ListProducts(runCtx)
	if err != nil {
		if shopify.IsFatal(err) {
			report.State = syncdomain.StateAborted
		} else {
			report.State = syncdomain.StateFailed
		}
		report.AbortReason = err.Error()
		return err
	}
	index := shopify.NewIndex(remotes)

	report.State = syncdomain.StateUpserting
	authErr := o.upsertAll(runCtx, cancel, client, index, items, opts.Scope, report, log)
	if authErr != nil {
		report.State = syncdomain.StateAborted
		report.AbortReason = authErr.Error()
		return authErr
	}
	return nil
}

// buildItems parses the feed up to the run's product cap, aggregates each
// record into a product and maps it to a wire payload. Records that fail
// aggregation validation are reported as failed items.
func (o *Orchestrator) buildItems(data []byte, opts syncdomain.Options, report *syncdomain.Report) ([]item, error) {
	limit := opts.EffectiveLimit()

	var items []item
	warnings, err := o.parser.Each(data, func(rec feed.Record) bool {
		product, mapWarnings := catalog.Aggregate(rec)
		for _, w := range mapWarnings {
			addWarning(report, w.Message)
		}
		if err := product.Validate(); err != nil {
			report.Processed++
			report.Failed++
			report.Errors = append(report.Errors, syncdomain.ItemError{
				ExternalID: rec.ExternalID,
				Title:      rec.Name,
				Reason:     err.Error(),
			})
			return true
		}
		items = append(items, item{
			externalID: rec.ExternalID,
			title:      product.Title,
			payload:    shopify.MapProduct(product),
		})
		return limit <= 0 || len(items) < limit
	})
	for _, w := range warnings {
		addWarning(report, w.String())
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && report.FeedProducts == 0 {
		return nil, feed.ErrEmptyFeed
	}
	return items, nil
}

// upsertAll runs the worker pool over the prepared items. It returns the
// authentication error when the run was aborted, nil otherwise.
func (o *Orchestrator) upsertAll(
	runCtx context.Context,
	cancel context.CancelFunc,
	client shopify.Client,
	index *shopify.Index,
	items []item,
	scope shopify.FieldScope,
	report *syncdomain.Report,
	log *zap.Logger,
) error {
	jobs := make(chan item)
	results := make(chan itemResult)

	claimed := &skuClaims{seen: make(map[string]bool)}

	var fatalMu stdsync.Mutex
	var fatalErr error
	recordFatal := func(err error) {
		fatalMu.Lock()
		if fatalErr == nil {
			fatalErr = err
		}
		fatalMu.Unlock()
		cancel()
	}

	var workerWG stdsync.WaitGroup
	workers := o.workers
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}
	for i := 0; i < workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for job := range jobs {
				results <- o.processItem(runCtx, client, index, job, scope, claimed, recordFatal, log)
			}
		}()
	}

	// Single aggregator goroutine owns the report counters.
	var aggWG stdsync.WaitGroup
	aggWG.Add(1)
	go func() {
		defer aggWG.Done()
		for res := range results {
			if res.status == statusDropped {
				continue
			}
			report.Processed++
			switch res.status {
			case statusCreated:
				report.Created++
			case statusUpdated:
				report.Updated++
			case statusSkipped:
				report.Skipped++
			case statusFailed:
				report.Failed++
			}
			if res.err != nil {
				report.Errors = append(report.Errors, *res.err)
			}
		}
	}()

	for _, job := range items {
		jobs <- job
	}
	close(jobs)
	workerWG.Wait()
	close(results)
	aggWG.Wait()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	return fatalErr
}

func (o *Orchestrator) processItem(
	runCtx context.Context,
	client shopify.Client,
	index *shopify.Index,
	job item,
	scope shopify.FieldScope,
	claimed *skuClaims,
	recordFatal func(error),
	log *zap.Logger,
) itemResult {
	if runCtx.Err() != nil {
		return expiredItem(runCtx, job)
	}

	sku := job.payload.FirstSKU()
	if sku != "" && !claimed.claim(sku) {
		return failedItem(job, "duplicate SKU within feed, item skipped")
	}

	change, err := index.Diff(job.payload, scope)
	if err != nil {
		return failedItem(job, err.Error())
	}

	switch change.Action {
	case shopify.ActionSkip:
		return itemResult{status: statusSkipped}

	case shopify.ActionCreate:
		if _, err := client.CreateProduct(runCtx, change.Payload); err != nil {
			return o.remoteFailure(runCtx, job, err, recordFatal, log)
		}
		if runCtx.Err() == context.DeadlineExceeded {
			// The call finished after the run deadline; its result does
			// not count.
			return failedItem(job, "run deadline exceeded")
		}
		log.Debug("product created", zap.String("externalId", job.externalID))
		return itemResult{status: statusCreated}

	default: // update
		if _, err := client.UpdateProduct(runCtx, change.RemoteID, change.Payload); err != nil {
			return o.remoteFailure(runCtx, job, err, recordFatal, log)
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return failedItem(job, "run deadline exceeded")
		}
		log.Debug("product updated",
			zap.String("externalId", job.externalID),
			zap.Int64("remoteId", change.RemoteID),
			zap.Strings("changed", change.Reasons))
		return itemResult{status: statusUpdated}
	}
}

func (o *Orchestrator) remoteFailure(runCtx context.Context, job item, err error, recordFatal func(error), log *zap.Logger) itemResult {
	if shopify.IsFatal(err) {
		recordFatal(err)
		log.Error("admin token rejected, aborting run", zap.Error(err))
		// The run-level error covers this item; it is not a per-item
		// failure and stays out of the counters.
		return itemResult{status: statusDropped}
	}
	if runCtx.Err() != nil {
		return expiredItem(runCtx, job)
	}
	log.Warn("item upsert failed",
		zap.String("externalId", job.externalID),
		zap.Error(err))
	return failedItem(job, err.Error())
}

// expiredItem classifies an item hit by run-context expiry: a run past its
// deadline records the item as a timeout failure, while items drained after
// a fatal abort are dropped without touching the counters.
func expiredItem(runCtx context.Context, job item) itemResult {
	if runCtx.Err() == context.DeadlineExceeded {
		return failedItem(job, "run deadline exceeded")
	}
	return itemResult{status: statusDropped}
}

func failedItem(job item, reason string) itemResult {
	return itemResult{
		status: statusFailed,
		err: &syncdomain.ItemError{
			ExternalID: job.externalID,
			SKU:        job.payload.FirstSKU(),
			Title:      job.title,
			Reason:     reason,
		},
	}
}

// skuClaims prevents two feed products from claiming the same SKU within
// one run, which would otherwise race a double create.
type skuClaims struct {
	mu   stdsync.Mutex
	seen map[string]bool
}

func (c *skuClaims) claim(sku string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seen[sku] {
		return false
	}
	c.seen[sku] = true
	return true
}

func addWarning(report *syncdomain.Report, w string) {
	if len(report.Warnings) < maxReportedWarnings {
		report.Warnings = append(report.Warnings, w)
	}
}

func (o *Orchestrator) persist(report *syncdomain.Report, log *zap.Logger) {
	if o.runs == nil {
		return
	}
	// Persistence must not block on a canceled run context.
	ctx, cancelSave := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSave()
	if err := o.runs.Save(ctx, report); err != nil {
		log.Error("failed to persist run report", zap.Error(err))
	}
}
