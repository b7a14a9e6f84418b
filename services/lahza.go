package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// LahzaClient calls the Lahza payment gateway REST API.
type LahzaClient struct {
	BaseURL   string
	SecretKey string
	HTTP      *http.Client
}

func NewLahzaClient() *LahzaClient {
	return &LahzaClient{
		BaseURL:   strings.TrimRight(os.Getenv("LAHZA_API_URL"), "/"),
		SecretKey: os.Getenv("LAHZA_SECRET_KEY"),
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

type InitializeTransactionInput struct {
	Amount      string `json:"amount"` // minor units (agorot)
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	CallbackURL string `json:"callback_url"`
	WebhookURL  string `json:"webhook_url,omitempty"`
}

type InitializedTransaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// InitializeTransaction starts a hosted checkout session and returns
// the authorization URL plus the gateway's transaction reference.
func (c *LahzaClient) InitializeTransaction(input InitializeTransactionInput) (*InitializedTransaction, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lahza: initialize failed with status %d: %s", res.StatusCode, string(body))
	}

	var parsed struct {
		Status  bool                   `json:"status"`
		Message string                 `json:"message"`
		Data    InitializedTransaction `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}

	if parsed.Data.Reference == "" {
		return nil, errors.New("lahza: no transaction reference returned")
	}

	return &parsed.Data, nil
}

// WebhookEvent is the completion callback payload posted by the gateway.
type WebhookEvent struct {
	Event     string `json:"event"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// VerifyWebhookSignature checks the HMAC-SHA512 hex digest of the raw
// webhook body against the X-Lahza-Signature header value.
func (c *LahzaClient) VerifyWebhookSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(c.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
