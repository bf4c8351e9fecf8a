package account

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// Uploader is the slice of the media store the profile handlers need.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (publicID string, secureURL string, err error)
	Delete(ctx context.Context, publicID string) error
}

func RegisterHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRegisterRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		acc, err := svc.Register(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		token, err := svc.IssueSession(acc)
		if err != nil {
			encodeError(err, w)
			return
		}

		setSessionCookie(w, token, sessionCookieMaxAge)
		w.WriteHeader(http.StatusCreated)
		encodeResponse(w, map[string]interface{}{
			"message": "User registered successfully",
			"user":    acc,
		})
	})
}

func LoginHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeCredentialsRequest(r.Body)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		acc, err := svc.Authenticate(r.Context(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		token, err := svc.IssueSession(acc)
		if err != nil {
			encodeError(err, w)
			return
		}

		setSessionCookie(w, token, sessionCookieMaxAge)
		encodeResponse(w, map[string]interface{}{
			"message": "User logged in successfully",
			"user":    acc,
		})
	})
}

func LogoutHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		setSessionCookie(w, "", -1)
		encodeResponse(w, map[string]interface{}{
			"message": "User logged out successfully",
		})
	})
}

func ProfileHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		acc, err := svc.Profile(r.Context(), claims.AccountID())
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{"user": acc})
	})
}

// UpdateProfileHandler accepts a multipart form with an optional
// fullName field and an optional avatar file. A replaced avatar's old
// object is removed from the media store.
func UpdateProfileHandler(svc Service, media Uploader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		req := updateProfileRequest{FullName: r.FormValue("fullName")}

		if file, header, err := r.FormFile("avatar"); err == nil {
			defer file.Close()

			current, err := svc.Profile(r.Context(), claims.AccountID())
			if err != nil {
				encodeError(err, w)
				return
			}

			key := "lms/avatars/" + uuid.New().String()
			publicID, secureURL, err := media.Upload(r.Context(), key, file, header.Header.Get("Content-Type"))
			if err != nil {
				encodeError(err, w)
				return
			}

			if current.Avatar.PublicID != "" && current.Avatar.PublicID != current.Email {
				_ = media.Delete(r.Context(), current.Avatar.PublicID)
			}

			req.Avatar = &Avatar{PublicID: publicID, SecureURL: secureURL}
		}

		acc, err := svc.UpdateProfile(r.Context(), claims.AccountID(), req)
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "User details updated successfully",
			"user":    acc,
		})
	})
}

func ForgotPasswordHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// the plaintext token travels only in the reset email
		if _, err := svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Reset password token has been sent to " + NormalizeEmail(req.Email),
		})
	})
}

func ResetPasswordHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		token := httprouter.ParamsFromContext(r.Context()).ByName("resetToken")

		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.ConsumePasswordReset(r.Context(), token, req.Password); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Password changed successfully",
		})
	})
}

func ChangePasswordHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req struct {
			OldPassword string `json:"oldPassword"`
			NewPassword string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if err := svc.ChangePassword(r.Context(), claims.AccountID(), req.OldPassword, req.NewPassword); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Password changed successfully",
		})
	})
}

const (
	sessionCookieName   = "token"
	sessionCookieMaxAge = 7 * 24 * 60 * 60
	maxAvatarBytes      = 10 << 20
)

func setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
	})
}

func encodeResponse(w http.ResponseWriter, body interface{}) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func encodeError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, ErrExistingEmail):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, ErrInvalidFullName), errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidPassword):
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidSession):
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrInvalidToken):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func decodeRegisterRequest(body io.ReadCloser) (registerRequest, error) {
	req := registerRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return registerRequest{}, err
	}
	return req, nil
}

func decodeCredentialsRequest(body io.ReadCloser) (credentialsRequest, error) {
	req := credentialsRequest{}
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return credentialsRequest{}, err
	}
	return req, nil
}
