// Package store holds the in-memory registry of active jobs.
package store

import (
	"github.com/itzwish/ffa-downloader/internal/models"
)

// Store defines the registry operations the job manager relies on.
// Implementations must be safe for concurrent use: progress callbacks from
// download goroutines race with HTTP reads.
type Store interface {
	Create(job *models.Job)
	Get(id string) (models.Job, bool)
	// Update applies fn to the stored job under the store lock. It reports
	// whether the job existed; a missing id is a no-op so that callbacks
	// arriving after a cancel have somewhere harmless to land.
	Update(id string, fn func(*models.Job)) bool
	Delete(id string) bool
	Len() int
}
