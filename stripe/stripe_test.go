package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePaymentIntent(t *testing.T) {
	var gotAuth, gotType, gotAmount, gotCurrency string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Error("expected an Idempotency-Key header")
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("bad form: %v", err)
		}
		gotAmount = r.PostForm.Get("amount")
		gotCurrency = r.PostForm.Get("currency")
		gotType = r.PostForm.Get("payment_method_types[]")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"pi_123","client_secret":"pi_123_secret","amount":1999,"currency":"usd","status":"requires_payment_method"}`)
	}))
	defer server.Close()

	client := NewWithBaseURL("sk_test_abc", server.URL)
	intent, err := client.CreatePaymentIntent(context.Background(), 1999, "usd")
	if err != nil {
		t.Fatalf("CreatePaymentIntent failed: %v", err)
	}

	if gotAuth != "Bearer sk_test_abc" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotAmount != "1999" || gotCurrency != "usd" || gotType != "card" {
		t.Errorf("form = amount:%s currency:%s type:%s", gotAmount, gotCurrency, gotType)
	}
	if intent.ClientSecret != "pi_123_secret" {
		t.Errorf("client secret = %q", intent.ClientSecret)
	}
}

func TestCreatePaymentIntentAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined.","type":"card_error"}}`)
	}))
	defer server.Close()

	client := NewWithBaseURL("sk_test_abc", server.URL)
	_, err := client.CreatePaymentIntent(context.Background(), 100, "usd")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "stripe: Your card was declined. (card_error)" {
		t.Errorf("unexpected error message: %s", got)
	}
}
