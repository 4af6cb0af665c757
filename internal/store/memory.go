package store

import (
	"sync"

	"github.com/itzwish/ffa-downloader/internal/models"
)

type memory struct {
	mu   sync.RWMutex
	jobs map[string]*models.Job
}

// NewMemoryStore initializes an in-memory store. Jobs do not survive a
// restart, and neither would their temp files or subprocesses.
func NewMemoryStore() Store {
	return &memory{
		jobs: make(map[string]*models.Job),
	}
}

func (m *memory) Create(job *models.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

func (m *memory) Get(id string) (models.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if job, ok := m.jobs[id]; ok {
		return *job, true
	}
	return models.Job{}, false
}

func (m *memory) Update(id string, fn func(*models.Job)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return false
	}
	fn(job)
	return true
}

func (m *memory) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return false
	}
	delete(m.jobs, id)
	return true
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
