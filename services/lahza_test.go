package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *LahzaClient) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &LahzaClient{
		BaseURL:   server.URL,
		SecretKey: "sk_test_secret",
		HTTP:      &http.Client{Timeout: 5 * time.Second},
	}
	return server, client
}

func TestInitializeTransaction(t *testing.T) {
	var gotAuth, gotPath string
	var gotInput InitializeTransactionInput

	_, client := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInput))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.lahza.io/abc123",
				"access_code":       "abc123",
				"reference":         "ref_42",
			},
		})
	})

	transaction, err := client.InitializeTransaction(InitializeTransactionInput{
		Amount:      "30000",
		Currency:    "ILS",
		Email:       "student@example.com",
		CallbackURL: "https://app.example.com/payment-success",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "/transaction/initialize", gotPath)
	assert.Equal(t, "30000", gotInput.Amount)
	assert.Equal(t, "ref_42", transaction.Reference)
	assert.Equal(t, "https://checkout.lahza.io/abc123", transaction.AuthorizationURL)
}

func TestInitializeTransactionGatewayError(t *testing.T) {
	_, client := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})

	_, err := client.InitializeTransaction(InitializeTransactionInput{Amount: "100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestInitializeTransactionMissingReference(t *testing.T) {
	_, client := newFakeGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{}}`))
	})

	_, err := client.InitializeTransaction(InitializeTransactionInput{Amount: "100"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reference")
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := &LahzaClient{SecretKey: "sk_test_secret"}
	body := []byte(`{"event":"charge.success","reference":"ref_42","status":"success"}`)

	mac := hmac.New(sha512.New, []byte("sk_test_secret"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.VerifyWebhookSignature(body, signature))
	assert.False(t, client.VerifyWebhookSignature(body, ""))
	assert.False(t, client.VerifyWebhookSignature(body, "deadbeef"))
	assert.False(t, client.VerifyWebhookSignature([]byte(`{"tampered":true}`), signature))

	other := &LahzaClient{SecretKey: "sk_other"}
	assert.False(t, other.VerifyWebhookSignature(body, signature))
}
