package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/procdocs/sopstruct/internal/analyze"
	"github.com/procdocs/sopstruct/internal/block"
	"github.com/procdocs/sopstruct/internal/config"
	"github.com/procdocs/sopstruct/internal/engine"
	"github.com/procdocs/sopstruct/internal/export"
	"github.com/procdocs/sopstruct/internal/ocr"
	"github.com/procdocs/sopstruct/internal/parser"
	"github.com/procdocs/sopstruct/internal/store"
	"github.com/procdocs/sopstruct/internal/template"
)

// Worker runs a single document job through extraction, structuring,
// analysis and export.
type Worker struct {
	claude *analyze.Client
	store  *store.Client
	ocr    *ocr.Client
	log    *slog.Logger
	cfg    config.Config
}

func NewWorker(claude *analyze.Client, st *store.Client, oc *ocr.Client, log *slog.Logger, cfg config.Config) *Worker {
	return &Worker{
		claude: claude,
		store:  st,
		ocr:    oc,
		log:    log,
		cfg:    cfg,
	}
}

// AnalysisDocument is the persisted analysis artifact.
type AnalysisDocument struct {
	SourceSOPFile string                    `json:"source_sop_file"`
	Results       []analyze.AttributeResult `json:"results"`
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Extract blocks, via OCR or local parsing.
	job.SetStatus(StatusExtracting, "extracting")
	graph, err := w.extract(ctx, job, log)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: Structure the document.
	job.SetStatus(StatusStructuring, "structuring")
	orphans := engine.DropOrphans
	if w.cfg.ImplicitOrphanSections {
		orphans = engine.ImplicitSection
	}
	result := engine.Build(graph, engine.Options{Orphans: orphans})
	job.SetStructureCounts(len(result.Structured), len(result.Sections))
	log.Info("structured document",
		"tables", len(result.Structured),
		"sections", len(result.Sections),
		"headings", len(result.Headings))

	processedKey := ProcessedKey(w.cfg.ProcessedPrefix, job.DocID)
	modelJSON, err := json.Marshal(result.Model)
	if err != nil {
		log.Error("marshal model failed", "error", err)
		job.AddError(fmt.Sprintf("marshal model: %s", err))
		job.SetStatus(StatusFailed, "structuring")
		return
	}
	if err := w.store.PutObject(ctx, w.cfg.ProcessingBucket, processedKey, modelJSON, "application/json"); err != nil {
		log.Error("store model failed", "error", err)
		job.AddError(fmt.Sprintf("store model: %s", err))
		job.SetStatus(StatusFailed, "structuring")
		return
	}

	// Phase 3: Analyze one attribute per LLM call, bounded concurrency.
	job.SetStatus(StatusAnalyzing, "analyzing")
	attrs := w.loadAttributes(ctx, log)
	job.SetTotalAttributes(len(attrs))
	sopText := analyze.CapText(result.RawText, w.cfg.MaxPromptChars)

	results := make([]analyze.AttributeResult, len(attrs))
	failed := make([]bool, len(attrs))
	sem := make(chan struct{}, w.cfg.MaxConcurrentAnalyze)
	done := make(chan int, len(attrs))

	for i, attr := range attrs {
		sem <- struct{}{}
		go func(i int, attr analyze.ControlAttribute) {
			defer func() { <-sem }()
			raw, err := w.analyzeAttribute(ctx, attr, sopText, result.Roles, log)
			if err != nil {
				log.Error("analysis failed", "attribute", attr.Attribute, "error", err)
				job.AddError(fmt.Sprintf("analyze %s: %s", attr.Attribute, err))
				failed[i] = true
			} else {
				results[i] = analyze.ParseOutput(attr, raw)
			}
			done <- i
		}(i, attr)
	}
	for range attrs {
		<-done
		job.IncrAttributesAnalyzed()
	}

	analyzed := make([]analyze.AttributeResult, 0, len(attrs))
	hadErrors := false
	for i := range attrs {
		if failed[i] {
			hadErrors = true
			continue
		}
		analyzed = append(analyzed, results[i])
	}
	log.Info("analysis complete", "analyzed", len(analyzed), "failed", len(attrs)-len(analyzed))

	if len(analyzed) == 0 && hadErrors {
		job.SetStatus(StatusFailed, "analyzing")
		return
	}

	// Phase 4: Export artifacts.
	job.SetStatus(StatusExporting, "exporting")
	analysisDoc := AnalysisDocument{
		SourceSOPFile: job.Filename,
		Results:       analyzed,
	}
	analysisJSON, err := json.Marshal(analysisDoc)
	if err != nil {
		log.Error("marshal analysis failed", "error", err)
		job.AddError(fmt.Sprintf("marshal analysis: %s", err))
		job.SetStatus(StatusFailed, "exporting")
		return
	}
	if err := w.store.PutObject(ctx, w.cfg.ProcessingBucket, AnalysisKey(w.cfg.ProcessedPrefix, job.DocID), analysisJSON, "application/json"); err != nil {
		log.Error("store analysis failed", "error", err)
		job.AddError(fmt.Sprintf("store analysis: %s", err))
		hadErrors = true
	}

	if workbook, err := export.AnalysisWorkbook(analyzed); err != nil {
		log.Error("workbook render failed", "error", err)
		job.AddError(fmt.Sprintf("workbook: %s", err))
		hadErrors = true
	} else if err := w.store.PutObject(ctx, w.cfg.OutputBucket, WorkbookKey(w.cfg.WorkbookPrefix, job.Filename), workbook.Bytes(),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"); err != nil {
		log.Error("store workbook failed", "error", err)
		job.AddError(fmt.Sprintf("store workbook: %s", err))
		hadErrors = true
	}

	if preview, err := export.PreviewHTML(result.Model); err != nil {
		log.Error("preview render failed", "error", err)
		job.AddError(fmt.Sprintf("preview: %s", err))
		hadErrors = true
	} else if err := w.store.PutObject(ctx, w.cfg.ProcessingBucket, PreviewKey(w.cfg.ProcessedPrefix, job.DocID), preview, "text/html; charset=utf-8"); err != nil {
		log.Error("store preview failed", "error", err)
		job.AddError(fmt.Sprintf("store preview: %s", err))
		hadErrors = true
	}

	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

// extract produces the block graph, preferring the OCR service for
// store-resident uploads and falling back to local text extraction.
func (w *Worker) extract(ctx context.Context, job *Job, log *slog.Logger) (*block.Graph, error) {
	if w.ocr != nil && job.Bucket != "" && job.Key != "" {
		jobID, err := w.ocr.StartAnalysis(ctx, job.Bucket, job.Key)
		if err != nil {
			return nil, fmt.Errorf("start ocr: %w", err)
		}
		log.Info("ocr started", "ocr_job_id", jobID)
		if err := w.ocr.WaitForCompletion(ctx, jobID); err != nil {
			return nil, fmt.Errorf("ocr: %w", err)
		}
		graph, err := w.ocr.FetchBlocks(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("fetch ocr blocks: %w", err)
		}
		return graph, nil
	}

	data := job.FileData()
	if data == nil && job.Bucket != "" && job.Key != "" {
		fetched, err := w.store.GetObject(ctx, job.Bucket, job.Key)
		if err != nil {
			return nil, fmt.Errorf("fetch upload: %w", err)
		}
		if fetched == nil {
			return nil, fmt.Errorf("upload %s/%s not found", job.Bucket, job.Key)
		}
		data = fetched
	}
	if data == nil {
		return nil, fmt.Errorf("no document bytes available")
	}

	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, err
	}
	ex, ok := p.(*parser.PDFExtractor)
	if ok {
		ex.FallbackPdftotext = w.cfg.PDFFallbackPdftotext
	}
	lines, err := p.Extract(bytes.NewReader(data), job.Filename)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", job.Filename, err)
	}
	return block.FromLines(lines), nil
}

// loadAttributes fetches the newest DE template from the store,
// falling back to the built-in rubric when none is usable.
func (w *Worker) loadAttributes(ctx context.Context, log *slog.Logger) []analyze.ControlAttribute {
	latest, err := w.store.LatestObject(ctx, w.cfg.ProcessingBucket, w.cfg.TemplatePrefix)
	if err != nil {
		log.Warn("no template found, using built-in attributes", "error", err)
		return analyze.DefaultAttributes
	}
	data, err := w.store.GetObject(ctx, w.cfg.ProcessingBucket, latest.Key)
	if err != nil || data == nil {
		log.Warn("template fetch failed, using built-in attributes", "key", latest.Key, "error", err)
		return analyze.DefaultAttributes
	}
	entries, err := template.Parse(data)
	if err != nil {
		log.Warn("template parse failed, using built-in attributes", "key", latest.Key, "error", err)
		return analyze.DefaultAttributes
	}
	attrs := template.ToControlAttributes(entries)
	if len(attrs) == 0 {
		log.Warn("template has no attributes, using built-in set", "key", latest.Key)
		return analyze.DefaultAttributes
	}
	log.Info("loaded template attributes", "key", latest.Key, "attributes", len(attrs))
	return attrs
}

// analyzeAttribute calls the model for one attribute with bounded
// retries on transient failures.
func (w *Worker) analyzeAttribute(ctx context.Context, attr analyze.ControlAttribute, sopText string, roles engine.RoleAssignments, log *slog.Logger) (string, error) {
	prompt, err := analyze.BuildPrompt(attr, sopText, roles)
	if err != nil {
		return "", err
	}

	var raw string
	var lastErr error
	for attempt := range MaxRetries {
		raw, lastErr = w.claude.Analyze(ctx, prompt)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		log.Warn("retryable analysis error", "attribute", attr.Attribute, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return raw, lastErr
}
