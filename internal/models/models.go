package models

import (
	"errors"
	"time"
)

// Status of a download job. Transitions are one-way: once a job reaches a
// terminal status it never leaves it.
type Status string

var (
	StatusStarting    Status = "starting"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// Terminal reports whether no further transitions may occur.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Output formats accepted by the API.
const (
	FormatMP4 = "mp4"
	FormatMP3 = "mp3"
)

// ValidFormat reports whether f is a recognized output format.
func ValidFormat(f string) bool {
	return f == FormatMP4 || f == FormatMP3
}

var (
	// ErrInvalidRequest is returned for requests rejected before a job exists.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound is returned for an unknown job id.
	ErrNotFound = errors.New("job not found")
	// ErrNotReady is returned when a file is requested before the job completed.
	ErrNotReady = errors.New("download not ready")
)

// Job is one tracked download/conversion request.
type Job struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"url"`
	Format    string    `json:"format"`
	Quality   string    `json:"quality"`
	Status    Status    `json:"status"`
	Progress  float64   `json:"progress"`
	FilePath  string    `json:"-"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// JobView is the read-only projection returned by the status endpoint.
type JobView struct {
	ID       string  `json:"id"`
	Status   Status  `json:"status"`
	Progress float64 `json:"progress"`
	Format   string  `json:"format"`
	Error    string  `json:"error,omitempty"`
}

// View projects the job for API consumers.
func (j Job) View() JobView {
	return JobView{
		ID:       j.ID,
		Status:   j.Status,
		Progress: j.Progress,
		Format:   j.Format,
		Error:    j.Error,
	}
}

// StartRequest is the body of POST /api/download/start.
type StartRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

// InfoRequest is the body of POST /api/info.
type InfoRequest struct {
	URL string `json:"url"`
}
