package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*StripeClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewStripeClient(server.URL, "sk_test_key", discardLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestNewStripeClient_RejectsRelativeURL(t *testing.T) {
	if _, err := NewStripeClient("/relative", "key", discardLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestCreateIntent_SendsFormAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm url.Values
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"pi_1","client_secret":"pi_1_secret","status":"requires_payment_method"}`))
	})

	intent, err := client.CreateIntent(context.Background(), CreateIntentRequest{
		Amount:      19.99,
		Currency:    "usd",
		Description: "order",
		Metadata:    map[string]string{"order_id": "order-1"},
	})
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	if gotPath != "/v1/payment_intents" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer sk_test_key" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotForm.Get("amount") != "1999" {
		t.Fatalf("amount must be sent in minor units, got %q", gotForm.Get("amount"))
	}
	if gotForm.Get("currency") != "usd" || gotForm.Get("metadata[order_id]") != "order-1" {
		t.Fatalf("unexpected form payload: %v", gotForm)
	}
	if intent.ProviderID != "pi_1" || intent.ClientSecret != "pi_1_secret" {
		t.Fatalf("unexpected intent: %+v", intent)
	}
	if intent.Status != model.RemoteStatusRequiresAction {
		t.Fatalf("unexpected status: %s", intent.Status)
	}
}

func TestRetrieveIntent_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		body string
		want model.RemoteStatus
	}{
		{"succeeded", `{"id":"pi_1","status":"succeeded","latest_charge":"ch_1"}`, model.RemoteStatusSucceeded},
		{"canceled", `{"id":"pi_1","status":"canceled"}`, model.RemoteStatusCanceled},
		{"processing", `{"id":"pi_1","status":"processing"}`, model.RemoteStatusRequiresAction},
		{"requires action", `{"id":"pi_1","status":"requires_action"}`, model.RemoteStatusRequiresAction},
		{"declined", `{"id":"pi_1","status":"requires_payment_method","last_payment_error":{"code":"card_declined","message":"declined"}}`, model.RemoteStatusFailed},
		{"unknown", `{"id":"pi_1","status":"weird"}`, model.RemoteStatusFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/payment_intents/pi_1" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tc.body))
			})

			intent, err := client.RetrieveIntent(context.Background(), "pi_1")
			if err != nil {
				t.Fatalf("retrieve: %v", err)
			}
			if intent.Status != tc.want {
				t.Fatalf("status = %s, want %s", intent.Status, tc.want)
			}
		})
	}
}

func TestRetrieveIntent_SucceededCarriesCharge(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"pi_1","status":"succeeded","latest_charge":"ch_42"}`))
	})

	intent, err := client.RetrieveIntent(context.Background(), "pi_1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if intent.TransactionID != "ch_42" {
		t.Fatalf("unexpected transaction id: %q", intent.TransactionID)
	}
}

func TestDo_ErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found", http.StatusNotFound, `{}`, domainErrors.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, `{}`, domainErrors.ErrGatewayUnavailable},
		{"server error", http.StatusInternalServerError, `{}`, domainErrors.ErrGatewayUnavailable},
		{"bad gateway", http.StatusBadGateway, `{}`, domainErrors.ErrGatewayUnavailable},
		{"validation", http.StatusBadRequest, `{"error":{"type":"invalid_request_error","code":"amount_too_small","message":"Amount must be at least 50 cents"}}`, domainErrors.ErrInvalidAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.RetrieveIntent(context.Background(), "pi_1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDo_NetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client, err := NewStripeClient(server.URL, "key", discardLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	server.Close()

	if _, err := client.RetrieveIntent(context.Background(), "pi_1"); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestMinorUnits(t *testing.T) {
	cases := map[float64]int64{
		19.99: 1999,
		0.01:  1,
		100:   10000,
		49.5:  4950,
	}
	for in, want := range cases {
		if got := minorUnits(in); got != want {
			t.Errorf("minorUnits(%v) = %d, want %d", in, got, want)
		}
	}
}
