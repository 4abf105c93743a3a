package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/ytscribe/internal/models"
	"github.com/desertthunder/ytscribe/internal/shared"
	"github.com/desertthunder/ytscribe/internal/tasks"
)

// JobFunc is the unit of work a background job runs. The result it returns is
// held by the job until the process exits.
type JobFunc func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (any, error)

// Job tracks one asynchronous resolution request.
type Job struct {
	id     string
	cancel context.CancelFunc

	mu      sync.Mutex
	status  string
	current int
	total   int
	message string
	kind    models.ErrorKind
	result  any
}

// ID returns the job's identifier.
func (j *Job) ID() string {
	return j.id
}

// Status returns a snapshot of the job's state. The result payload is only
// included once the job has completed.
func (j *Job) Status() models.JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	status := models.JobStatus{
		JobID:   j.id,
		Status:  j.status,
		Current: j.current,
		Total:   j.total,
		Message: j.message,
		Kind:    j.kind,
	}
	if j.status == models.JobCompleted {
		status.Result = j.result
	}
	return status
}

// Cancel requests cancellation of a running job.
//
// The job transitions to cancelling immediately and to cancelled once its
// work function observes the context and returns.
func (j *Job) Cancel() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != models.JobRunning {
		return fmt.Errorf("%w: job %s is %s", shared.ErrJobNotRunning, j.id, j.status)
	}

	j.status = models.JobCancelling
	j.cancel()
	return nil
}

// Result returns the completed job's payload, or ErrJobNotComplete while the
// job is still running or ended without one.
func (j *Job) Result() (any, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != models.JobCompleted {
		return nil, fmt.Errorf("%w: job %s is %s", shared.ErrJobNotComplete, j.id, j.status)
	}
	return j.result, nil
}

func (j *Job) update(u tasks.ProgressUpdate) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != models.JobRunning && j.status != models.JobCancelling {
		return
	}
	j.current = u.Step
	j.total = u.Total
	j.message = u.Message
}

func (j *Job) finish(result any, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch {
	case err == nil:
		j.status = models.JobCompleted
		j.result = result
		j.message = "done"
	case errors.Is(err, context.Canceled):
		j.status = models.JobCancelled
		j.message = "cancelled"
	default:
		j.status = models.JobError
		j.message = err.Error()
		j.kind = kindFor(err)
	}
}

// JobStore holds jobs in memory for the lifetime of the process.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobStore creates an empty [JobStore].
func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*Job)}
}

// Get looks a job up by ID.
func (s *JobStore) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrJobNotFound, id)
	}
	return job, nil
}

// Launch starts fn in the background and returns the tracking job.
//
// The job's context is detached from the request that created it; only an
// explicit Cancel or process exit stops the work.
func (s *JobStore) Launch(fn JobFunc) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{
		id:     shared.GenerateID(),
		cancel: cancel,
		status: models.JobRunning,
	}

	s.mu.Lock()
	s.jobs[job.id] = job
	s.mu.Unlock()

	progress := make(chan tasks.ProgressUpdate, 16)

	var consumed sync.WaitGroup
	consumed.Add(1)
	go func() {
		defer consumed.Done()
		for u := range progress {
			job.update(u)
		}
	}()

	go func() {
		defer cancel()
		result, err := fn(ctx, progress)
		close(progress)
		consumed.Wait()
		job.finish(result, err)
	}()

	return job
}
