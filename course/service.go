package course

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type service struct {
	courses Repository
	media   MediaRemover
	now     func() time.Time
}

func NewService(courses Repository, media MediaRemover) Service {
	return &service{
		courses: courses,
		media:   media,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) ListCourses(ctx context.Context) ([]Course, error) {
	courses, err := svc.courses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	return courses, nil
}

func (svc *service) CourseLectures(ctx context.Context, id CourseID) ([]Lecture, error) {
	c, err := svc.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Lectures, nil
}

func (svc *service) CreateCourse(ctx context.Context, req createCourseRequest) (*Course, error) {
	c, err := NewCourse(req.Title, req.Description, req.Category, req.CreatedBy)
	if err != nil {
		return nil, err
	}

	if req.Thumbnail != nil {
		c.Thumbnail = *req.Thumbnail
	}

	c.ID = NewCourseID()
	c.CreatedAt = svc.now()
	c.UpdatedAt = c.CreatedAt

	if err := svc.courses.Store(ctx, c); err != nil {
		return nil, fmt.Errorf("error saving course: %w", err)
	}

	return c, nil
}

func (svc *service) UpdateCourse(ctx context.Context, id CourseID, req updateCourseRequest) (*Course, error) {
	c, err := svc.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.Category != "" {
		c.Category = req.Category
	}
	c.UpdatedAt = svc.now()

	if err := svc.courses.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error saving course: %w", err)
	}

	return c, nil
}

func (svc *service) DeleteCourse(ctx context.Context, id CourseID) error {
	if _, err := svc.findCourse(ctx, id); err != nil {
		return err
	}

	if err := svc.courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	return nil
}

func (svc *service) AddLecture(ctx context.Context, id CourseID, req addLectureRequest) (*Course, error) {
	c, err := svc.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	l := Lecture{
		ID:          NewLectureID(),
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Media != nil {
		l.Media = *req.Media
	}

	c.AddLecture(l)
	c.UpdatedAt = svc.now()

	if err := svc.courses.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error saving course: %w", err)
	}

	return c, nil
}

func (svc *service) RemoveLecture(ctx context.Context, id CourseID, lectureID LectureID) error {
	c, err := svc.findCourse(ctx, id)
	if err != nil {
		return err
	}

	removed, err := c.RemoveLecture(lectureID)
	if err != nil {
		return err
	}

	if removed.Media.PublicID != "" {
		if err := svc.media.Delete(ctx, removed.Media.PublicID); err != nil {
			return fmt.Errorf("error removing lecture media: %w", err)
		}
	}

	c.UpdatedAt = svc.now()

	if err := svc.courses.Update(ctx, c); err != nil {
		return fmt.Errorf("error saving course: %w", err)
	}

	return nil
}

func (svc *service) findCourse(ctx context.Context, id CourseID) (*Course, error) {
	c, err := svc.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("error loading course: %w", err)
	}
	return c, nil
}
