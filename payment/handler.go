package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/coursewire/lms/account"
)

var validate = validator.New()

func APIKeyHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		encodeResponse(w, map[string]interface{}{
			"message": "Razorpay API key",
			"key":     svc.APIKey(),
		})
	})
}

func SubscribeHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := account.ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		sub, err := svc.Subscribe(r.Context(), claims.AccountID())
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message":         "Subscribed successfully",
			"subscription_id": sub.ID,
		})
	})
}

func VerifyHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := account.ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := validate.Struct(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			encodeResponse(w, map[string]interface{}{"error": err.Error()})
			return
		}

		if err := svc.VerifySubscription(r.Context(), claims.AccountID(), req); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Payment verified successfully",
		})
	})
}

func CancelHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, ok := account.ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if err := svc.CancelSubscription(r.Context(), claims.AccountID()); err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message": "Subscription cancelled successfully",
		})
	})
}

func AllPaymentsHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

		payments, err := svc.AllPayments(r.Context(), count, skip)
		if err != nil {
			encodeError(err, w)
			return
		}

		encodeResponse(w, map[string]interface{}{
			"message":  "All payments",
			"payments": payments,
		})
	})
}

func encodeResponse(w http.ResponseWriter, body interface{}) {
	if err := json.NewEncoder(w).Encode(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func encodeError(err error, w http.ResponseWriter) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrAdminCannotSubscribe):
		w.WriteHeader(http.StatusForbidden)
	case errors.Is(err, ErrPaymentNotVerified), errors.Is(err, ErrNotSubscribed):
		w.WriteHeader(http.StatusBadRequest)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
	encodeResponse(w, map[string]interface{}{"error": err.Error()})
}
