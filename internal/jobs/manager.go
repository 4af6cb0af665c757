// Package jobs implements the lifecycle of download jobs: start, poll,
// retrieve, cancel. Each started job runs exactly one external subprocess in
// the background while clients observe it through the store.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/itzwish/ffa-downloader/internal/history"
	"github.com/itzwish/ffa-downloader/internal/models"
	"github.com/itzwish/ffa-downloader/internal/store"
)

// cleanupDelay is how long a result file lives after it was handed to the
// client, leaving the transfer time to drain before the file disappears.
const cleanupDelay = 5 * time.Second

// Runner downloads a URL into a local file, reporting progress along the way.
type Runner interface {
	Download(ctx context.Context, url, format, quality string, onProgress func(float64)) (string, error)
}

// Recorder persists terminal job outcomes.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Manager owns the job registry and drives every job from starting to a
// terminal status.
type Manager struct {
	store    store.Store
	runner   Runner
	recorder Recorder
	logger   *slog.Logger
}

// NewManager wires the manager. recorder may be nil when history is disabled.
func NewManager(st store.Store, runner Runner, recorder Recorder, logger *slog.Logger) *Manager {
	return &Manager{
		store:    st,
		runner:   runner,
		recorder: recorder,
		logger:   logger.WithGroup("jobs"),
	}
}

// Start validates the request, registers a job in "starting" and kicks off
// the download in the background. It returns as soon as the record exists.
//
// Jobs are not queued or bounded here: every Start spawns its own subprocess,
// so several downloads can run at once even though the service was sized for
// one at a time.
func (m *Manager) Start(url, format, quality string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("%w: url is required", models.ErrInvalidRequest)
	}
	if !models.ValidFormat(format) {
		return "", fmt.Errorf("%w: format must be mp4 or mp3", models.ErrInvalidRequest)
	}
	if quality == "" {
		quality = "medium"
	}

	job := &models.Job{
		ID:        uuid.New().String(),
		SourceURL: url,
		Format:    format,
		Quality:   quality,
		Status:    models.StatusStarting,
		CreatedAt: time.Now(),
	}
	m.store.Create(job)
	m.logger.Info("job created", "id", job.ID, "url", url, "format", format)

	go m.run(job.ID, url, format, quality, job.CreatedAt)

	return job.ID, nil
}

// run executes one job to its terminal status. Nothing awaits it; a panic in
// the runner must end up in the job record, never in a crashed process.
func (m *Manager) run(id, url, format, quality string, created time.Time) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("job panicked", "id", id, "panic", fmt.Sprint(r))
			m.fail(id, url, format, created, fmt.Sprintf("internal error: %v", r))
		}
	}()

	ctx := context.Background()
	path, err := m.runner.Download(ctx, url, format, quality, func(pct float64) {
		m.store.Update(id, func(j *models.Job) {
			if j.Status.Terminal() {
				return
			}
			if j.Status == models.StatusStarting {
				j.Status = models.StatusDownloading
			}
			j.Progress = pct
		})
	})

	if err != nil {
		m.logger.Error("job failed", "id", id, "err", err)
		m.fail(id, url, format, created, err.Error())
		return
	}

	// A cancel may have removed the record while the subprocess ran; the
	// missed update leaves an orphaned file for the janitor.
	updated := m.store.Update(id, func(j *models.Job) {
		j.Status = models.StatusCompleted
		j.Progress = 100
		j.FilePath = path
	})
	if !updated {
		m.logger.Warn("job finished after cancel", "id", id, "file", path)
	} else {
		m.logger.Info("job completed", "id", id, "file", path)
	}
	m.record(id, url, format, created, models.StatusCompleted, "", path)
}

func (m *Manager) fail(id, url, format string, created time.Time, reason string) {
	m.store.Update(id, func(j *models.Job) {
		if j.Status.Terminal() {
			return
		}
		j.Status = models.StatusError
		j.Error = reason
	})
	m.record(id, url, format, created, models.StatusError, reason, "")
}

func (m *Manager) record(id, url, format string, created time.Time, status models.Status, reason, path string) {
	if m.recorder == nil {
		return
	}
	var size int64
	if path != "" {
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
	}
	now := time.Now()
	err := m.recorder.Record(context.Background(), history.Entry{
		ID:            id,
		SourceURL:     url,
		Format:        format,
		Status:        string(status),
		FailureReason: reason,
		Duration:      now.Sub(created),
		SizeBytes:     size,
		CreatedAt:     created,
		FinishedAt:    now,
	})
	if err != nil {
		m.logger.Error("history record failed", "id", id, "err", err)
	}
}

// Status returns the read-only projection of a job.
func (m *Manager) Status(id string) (models.JobView, error) {
	job, ok := m.store.Get(id)
	if !ok {
		return models.JobView{}, models.ErrNotFound
	}
	return job.View(), nil
}

// Cancel removes the job record and any result file. It does not signal an
// in-flight subprocess; that one runs to its own end and its late callbacks
// find no record to update.
func (m *Manager) Cancel(id string) error {
	job, ok := m.store.Get(id)
	if !ok {
		return models.ErrNotFound
	}
	if job.FilePath != "" {
		if err := os.Remove(job.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("could not remove file on cancel", "id", id, "err", err)
		}
	}
	m.store.Delete(id)
	m.logger.Info("job cancelled", "id", id)
	return nil
}

// ResolveFile returns the job whose file may be streamed to the client. The
// caller must follow a successful transfer with FinishFile.
func (m *Manager) ResolveFile(id string) (models.Job, error) {
	job, ok := m.store.Get(id)
	if !ok {
		return models.Job{}, models.ErrNotFound
	}
	if job.Status != models.StatusCompleted || job.FilePath == "" {
		return models.Job{}, models.ErrNotReady
	}
	if _, err := os.Stat(job.FilePath); err != nil {
		return models.Job{}, models.ErrNotReady
	}
	return job, nil
}

// FinishFile removes the record and schedules deletion of the result file
// once the transfer had time to complete.
func (m *Manager) FinishFile(id string) {
	job, ok := m.store.Get(id)
	if !ok {
		return
	}
	m.store.Delete(id)
	path := job.FilePath
	time.AfterFunc(cleanupDelay, func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("could not remove served file", "id", id, "err", err)
		}
	})
}
