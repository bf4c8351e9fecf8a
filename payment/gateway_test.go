package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRazorpayGateway_CreateAndCancelSubscription(t *testing.T) {
	var gotPath, gotAuthUser string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, _, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)

		switch r.URL.Path {
		case "/v1/subscriptions":
			json.NewEncoder(w).Encode(GatewaySubscription{ID: "sub_1", Status: "created"})
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	gw := NewRazorpayGateway("rzp_test_key", "gateway-secret", srv.URL)

	sub, err := gw.CreateSubscription(context.Background(), "plan_basic", map[string]string{"email": "a@x.com"})
	assert.NoError(t, err)
	assert.Equal(t, "sub_1", sub.ID)
	assert.Equal(t, "/v1/subscriptions", gotPath)
	assert.Equal(t, "rzp_test_key", gotAuthUser)
	assert.Equal(t, "plan_basic", gotPayload["plan_id"])

	assert.NoError(t, gw.CancelSubscription(context.Background(), "sub_1"))
	assert.Equal(t, "/v1/subscriptions/sub_1/cancel", gotPath)
}

func TestRazorpayGateway_CreateSubscription_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"description": "plan does not exist"},
		})
	}))
	defer srv.Close()

	gw := NewRazorpayGateway("rzp_test_key", "gateway-secret", srv.URL)

	_, err := gw.CreateSubscription(context.Background(), "plan_missing", nil)
	assert.ErrorContains(t, err, "plan does not exist")
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	gw := NewRazorpayGateway("rzp_test_key", "gateway-secret", "http://unused")

	valid := sign("gateway-secret", "pay_1", "sub_1")

	assert.True(t, gw.VerifySignature("pay_1", "sub_1", valid))
	assert.False(t, gw.VerifySignature("pay_1", "sub_1", "forged"))
	assert.False(t, gw.VerifySignature("pay_2", "sub_1", valid))
	assert.False(t, gw.VerifySignature("pay_1", "sub_1", sign("other-secret", "pay_1", "sub_1")))
}
