package course

import (
	"context"
	"sync"
)

type courseRepository struct {
	mu      sync.RWMutex
	courses map[CourseID]*Course
}

func NewCourseRepository() Repository {
	return &courseRepository{courses: map[CourseID]*Course{}}
}

func (repo *courseRepository) FindAll(_ context.Context) ([]Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	out := make([]Course, 0, len(repo.courses))
	for _, c := range repo.courses {
		stripped := *c
		stripped.Lectures = nil
		out = append(out, stripped)
	}
	return out, nil
}

func (repo *courseRepository) FindByID(_ context.Context, id CourseID) (*Course, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	if c, ok := repo.courses[id]; ok {
		return c, nil
	}
	return nil, ErrCourseNotFound
}

func (repo *courseRepository) Store(_ context.Context, c *Course) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.courses[c.ID] = c
	return nil
}

func (repo *courseRepository) Update(_ context.Context, c *Course) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.courses[c.ID]; !ok {
		return ErrCourseNotFound
	}
	repo.courses[c.ID] = c
	return nil
}

func (repo *courseRepository) Delete(_ context.Context, id CourseID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.courses[id]; !ok {
		return ErrCourseNotFound
	}
	delete(repo.courses, id)
	return nil
}
