package course

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// Uploader is the slice of the media store the upload handlers need.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (publicID string, secureURL string, err error)
}

var validate = validator.New()

const maxUploadBytes = 50 << 20

func ListCoursesHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		courses, err := svc.ListCourses(r.Context())
		if err != nil {
			encodeError(err, w)
			return
		}
		encodeResponse(w, map[string]interface{}{
			"message": "All courses",
			"courses": courses,
		})
	})
}

func CourseLecturesHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := CourseID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		lectures, err := svc.CourseLectures(r.Context(), id)
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message":  "Course lectures fetched successfully",
			"lectures": lectures,
		})
	})
}

func CreateCourseHandler(svc Service, media Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		req, err := decodeCreateCourseRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(&req); err != nil {
			encodeValidationError(err, w)
			return
		}

		if file, header, err := r.FormFile("thumbnail"); err == nil {
			defer file.Close()
			key := "lms/thumbnails/" + uuid.New().String()
			publicID, secureURL, err := media.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
			if err != nil {
				encodeError(err, w)
				return
			}
			req.Thumbnail = &Media{PublicID: publicID, SecureURL: secureURL}
		}

		c, err := svc.CreateCourse(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		w.WriteHeader(http.StatusCreated)
		encodeResponse(w, map[string]interface{}{
			"message": "Course created successfully",
			"course":  c,
		})
	})
}

func UpdateCourseHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := CourseID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		var req updateCourseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(&req); err != nil {
			encodeValidationError(err, w)
			return
		}

		c, err := svc.UpdateCourse(r.Context(), id, req)
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Course updated successfully",
			"course":  c,
		})
	})
}

func DeleteCourseHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := CourseID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		if err := svc.DeleteCourse(r.Context(), id); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Course deleted successfully",
		})
	})
}

func AddLectureHandler(svc Service, media Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := CourseID(httprouter.ParamsFromContext(r.Context()).ByName("id"))

		req, err := decodeAddLectureRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(&req); err != nil {
			encodeValidationError(err, w)
			return
		}

		if file, header, err := r.FormFile("lecture"); err == nil {
			defer file.Close()
			key := "lms/lectures/" + uuid.New().String()
			publicID, secureURL, err := media.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
			if err != nil {
				encodeError(err, w)
				return
			}
			req.Media = &Media{PublicID: publicID, SecureURL: secureURL}
		}

		c, err := svc.AddLecture(r.Context(), id, req)
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Lecture successfully added to the course",
			"course":  c,
		})
	})
}

func RemoveLectureHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		courseID := r.URL.Query().Get("courseId")
		lectureID := r.URL.Query().Get("lectureId")
		if courseID == "" || lectureID == "" {
			w.WriteHeader(http.StatusBadRequest)
			encodeResponse(w, map[string]interface{}{"error": "courseId and lectureId are required"})
			return
		}

		if err := svc.RemoveLecture(r.Context(), CourseID(courseID), LectureID(lectureID)); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Course lecture removed successfully",
		})
	})
}

func decodeCreateCourseRequest(r *http.Request) (createCourseRequest, error) {
	req := createCourseRequest{}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return req, err
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		req.Category = r.FormValue("category")
		req.CreatedBy = r.FormValue("createdBy")
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return createCourseRequest{}, err
	}
	return req, nil
}

func decodeAddLectureRequest(r *http.Request) (addLectureRequest, error) {
	req := addLectureRequest{}
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return req, err
		}
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return addLectureRequest{}, err
	}
	return req, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func encodeResponse(w http.ResponseWriter, body interface{}) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func encodeValidationError(err error, w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnprocessableEntity)
	encodeResponse(w, map[string]interface{}{"error": err.Error()})
}

func encodeError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrCourseNotFound), errors.Is(err, ErrLectureNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrInvalidTitle), errors.Is(err, ErrInvalidDescription),
		errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidCreator):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	encodeResponse(w, map[string]interface{}{"error": err.Error()})
}
