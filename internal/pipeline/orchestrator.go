package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/procdocs/sopstruct/internal/analyze"
	"github.com/procdocs/sopstruct/internal/config"
	"github.com/procdocs/sopstruct/internal/ocr"
	"github.com/procdocs/sopstruct/internal/store"
)

// Orchestrator manages the document processing pipeline.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	claude *analyze.Client
	store  *store.Client
	ocr    *ocr.Client
	log    *slog.Logger
	cfg    config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. The OCR client may be nil when
// the service runs with local extraction only.
func NewOrchestrator(cfg config.Config, claude *analyze.Client, st *store.Client, oc *ocr.Client, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		claude: claude,
		store:  st,
		ocr:    oc,
		log:    log,
		cfg:    cfg,
	}
}

// NewJob allocates a queued job with fresh IDs.
func (o *Orchestrator) NewJob(filename string) *Job {
	now := time.Now()
	return &Job{
		ID:        generateULID(),
		DocID:     generateULID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.claude, o.store, o.ocr, o.log, o.cfg)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// StoreClient returns the object store client for direct use by API
// handlers.
func (o *Orchestrator) StoreClient() *store.Client {
	return o.store
}
