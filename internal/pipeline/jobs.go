package pipeline

import (
	"sync"
	"time"
)

// JobStatus represents the state of a document processing job.
type JobStatus string

const (
	StatusQueued      JobStatus = "queued"
	StatusExtracting  JobStatus = "extracting"
	StatusStructuring JobStatus = "structuring"
	StatusAnalyzing   JobStatus = "analyzing"
	StatusExporting   JobStatus = "exporting"
	StatusCompleted   JobStatus = "completed"
	StatusFailed      JobStatus = "failed"
	StatusPartial     JobStatus = "partial"
)

// Job tracks the state of a single document run through the pipeline.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	// Store reference for documents uploaded via presigned URL.
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	errors   []string
}

// Progress tracks per-phase counters.
type Progress struct {
	TotalAttributes    int      `json:"total_attributes"`
	AttributesAnalyzed int      `json:"attributes_analyzed"`
	TablesExtracted    int      `json:"tables_extracted"`
	SectionsFound      int      `json:"sections_found"`
	Errors             []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetStructureCounts records how many tables and sections the engine
// produced.
func (j *Job) SetStructureCounts(tables, sections int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TablesExtracted = tables
	j.Progress.SectionsFound = sections
	j.UpdatedAt = time.Now()
}

// SetTotalAttributes records how many attributes will be analyzed.
func (j *Job) SetTotalAttributes(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalAttributes = n
	j.UpdatedAt = time.Now()
}

// IncrAttributesAnalyzed atomically increments the analyzed count.
func (j *Job) IncrAttributesAnalyzed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.AttributesAnalyzed++
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	DocID    string    `json:"doc_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:       j.ID,
		DocID:    j.DocID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Progress: Progress{
			TotalAttributes:    j.Progress.TotalAttributes,
			AttributesAnalyzed: j.Progress.AttributesAnalyzed,
			TablesExtracted:    j.Progress.TablesExtracted,
			SectionsFound:      j.Progress.SectionsFound,
			Errors:             errs,
		},
	}
}
