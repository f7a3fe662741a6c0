package database

import (
	"context"
	"sync"

	"github.com/rpupo63/portfolio-tracker-backend/models"
)

// MemoryProjectRepo keeps projects in process memory, in insertion order.
// Ids come from a counter that only moves forward, so deleted ids are never handed out again.
type MemoryProjectRepo struct {
	mu       sync.RWMutex
	projects []*models.Project
	lastID   uint
}

func NewMemoryProjectRepo() *MemoryProjectRepo {
	return &MemoryProjectRepo{}
}

func (r *MemoryProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		clone := *p
		projects = append(projects, &clone)
	}
	return projects, nil
}

func (r *MemoryProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, projectNotFound()
	}
	clone := *r.projects[i]
	return &clone, nil
}

func (r *MemoryProjectRepo) Add(ctx context.Context, fields models.ProjectFields) (*models.Project, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	project := &models.Project{ID: r.lastID}
	project.Apply(fields)
	r.projects = append(r.projects, project)

	clone := *project
	return &clone, nil
}

func (r *MemoryProjectRepo) Update(ctx context.Context, id uint, fields models.ProjectFields) error {
	if err := validateFields(fields); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return projectNotFound()
	}
	r.projects[i].Apply(fields)
	return nil
}

func (r *MemoryProjectRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return projectNotFound()
	}
	r.projects = append(r.projects[:i], r.projects[i+1:]...)
	return nil
}

func (r *MemoryProjectRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.projects)), nil
}

// indexOf must be called with mu held
func (r *MemoryProjectRepo) indexOf(id uint) int {
	for i, p := range r.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
