package course

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"
)

type CourseID string

type LectureID string

// Media references an object held by the external media store.
type Media struct {
	PublicID  string `json:"public_id" bson:"public_id"`
	SecureURL string `json:"secure_url" bson:"secure_url"`
}

type Lecture struct {
	ID          LectureID `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Media       Media     `json:"lecture" bson:"lecture"`
}

type Course struct {
	ID               CourseID  `json:"id" bson:"_id"`
	Title            string    `json:"title" bson:"title"`
	Description      string    `json:"description" bson:"description"`
	Category         string    `json:"category" bson:"category"`
	CreatedBy        string    `json:"createdBy" bson:"createdBy"`
	Thumbnail        Media     `json:"thumbnail" bson:"thumbnail"`
	Lectures         []Lecture `json:"lectures,omitempty" bson:"lectures"`
	NumberOfLectures int       `json:"numberOfLectures" bson:"numberOfLectures"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

var (
	ErrInvalidTitle       = errors.New("title must be between 5 and 100 characters")
	ErrInvalidDescription = errors.New("description is required")
	ErrInvalidCategory    = errors.New("category is required")
	ErrInvalidCreator     = errors.New("createdBy is required")
	ErrCourseNotFound     = errors.New("course with given id does not exist")
	ErrLectureNotFound    = errors.New("lecture does not exist")
)

func NewCourse(title, description, category, createdBy string) (*Course, error) {
	title = strings.TrimSpace(title)
	if len(title) < 5 || len(title) > 100 {
		return nil, ErrInvalidTitle
	}
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidDescription
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrInvalidCategory
	}
	if strings.TrimSpace(createdBy) == "" {
		return nil, ErrInvalidCreator
	}

	return &Course{
		Title:       title,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		CreatedBy:   strings.TrimSpace(createdBy),
	}, nil
}

func NewCourseID() CourseID {
	return CourseID(xid.New().String())
}

func NewLectureID() LectureID {
	return LectureID(xid.New().String())
}

// AddLecture appends a lecture and keeps the counter in sync.
func (c *Course) AddLecture(l Lecture) {
	c.Lectures = append(c.Lectures, l)
	c.NumberOfLectures = len(c.Lectures)
}

// RemoveLecture deletes the lecture by id and returns it so its media
// can be cleaned up.
func (c *Course) RemoveLecture(id LectureID) (Lecture, error) {
	for i, l := range c.Lectures {
		if l.ID == id {
			c.Lectures = append(c.Lectures[:i], c.Lectures[i+1:]...)
			c.NumberOfLectures = len(c.Lectures)
			return l, nil
		}
	}
	return Lecture{}, ErrLectureNotFound
}
