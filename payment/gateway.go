package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the payment provider the service delegates subscription
// handling to. Signature verification is local; everything else is a
// remote call.
type Gateway interface {
	CreateSubscription(ctx context.Context, planID string, notes map[string]string) (*GatewaySubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	VerifySignature(paymentID string, subscriptionID string, signature string) bool
	Key() string
}

type GatewaySubscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type razorpayGateway struct {
	key     string
	secret  string
	baseURL string
	client  *http.Client
}

func NewRazorpayGateway(key, secret, baseURL string) Gateway {
	return &razorpayGateway{
		key:     key,
		secret:  secret,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *razorpayGateway) Key() string {
	return g.key
}

func (g *razorpayGateway) CreateSubscription(ctx context.Context, planID string, notes map[string]string) (*GatewaySubscription, error) {
	payload := map[string]interface{}{
		"plan_id":         planID,
		"customer_notify": 1,
		"total_count":     12,
		"notes":           notes,
	}

	var sub GatewaySubscription
	if err := g.do(ctx, http.MethodPost, "/v1/subscriptions", payload, &sub); err != nil {
		return nil, fmt.Errorf("error creating subscription: %w", err)
	}
	return &sub, nil
}

func (g *razorpayGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	path := fmt.Sprintf("/v1/subscriptions/%s/cancel", subscriptionID)
	if err := g.do(ctx, http.MethodPost, path, map[string]interface{}{}, nil); err != nil {
		return fmt.Errorf("error cancelling subscription: %w", err)
	}
	return nil
}

// VerifySignature recomputes the HMAC-SHA256 the gateway sends back
// after checkout and compares it in constant time.
func (g *razorpayGateway) VerifySignature(paymentID string, subscriptionID string, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *razorpayGateway) do(ctx context.Context, method string, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.key, g.secret)
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var gwErr struct {
			Error struct {
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&gwErr)
		return fmt.Errorf("gateway returned %d: %s", res.StatusCode, gwErr.Error.Description)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
