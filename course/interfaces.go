package course

import "context"

type Service interface {
	ListCourses(ctx context.Context) ([]Course, error)
	CourseLectures(ctx context.Context, id CourseID) ([]Lecture, error)
	CreateCourse(ctx context.Context, req createCourseRequest) (*Course, error)
	UpdateCourse(ctx context.Context, id CourseID, req updateCourseRequest) (*Course, error)
	DeleteCourse(ctx context.Context, id CourseID) error
	AddLecture(ctx context.Context, id CourseID, req addLectureRequest) (*Course, error)
	RemoveLecture(ctx context.Context, id CourseID, lectureID LectureID) error
}

type Repository interface {
	// FindAll returns the catalog with lectures stripped.
	FindAll(ctx context.Context) ([]Course, error)
	FindByID(ctx context.Context, id CourseID) (*Course, error)
	Store(ctx context.Context, c *Course) error
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id CourseID) error
}

// MediaRemover is the slice of the media store the service needs for
// lecture cleanup.
type MediaRemover interface {
	Delete(ctx context.Context, publicID string) error
}

type createCourseRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
	CreatedBy   string `json:"createdBy" validate:"required"`
	Thumbnail   *Media `json:"-"`
}

type updateCourseRequest struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=5,max=100"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

type addLectureRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Media       *Media `json:"-"`
}
