package server

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, cfg Config, path, body string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()

	router := NewRouter(cfg)
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, w.Body.Bytes()
}

func TestLatticeEndpoint(t *testing.T) {
	body := `{"spot":100,"strike":100,"maturity":1.0,"rate":0.05,"up":1.1,"down":0.9,"steps":3,"option_type":"call"}`
	w, raw := doRequest(t, Config{}, "/api/lattice", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, raw)
	}

	var res LatticeResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if math.Abs(res.Price-9.875778502232407) > 1e-9 {
		t.Fatalf("expected reference price, got %.12f", res.Price)
	}
	if math.Abs(res.Delta-0.608318883167871) > 1e-9 {
		t.Fatalf("expected reference delta, got %.12f", res.Delta)
	}
}

func TestLatticeEndpointRejectsBadParams(t *testing.T) {
	body := `{"spot":0,"strike":100,"maturity":1.0,"rate":0.05,"up":1.1,"down":0.9,"steps":3}`
	w, raw := doRequest(t, Config{}, "/api/lattice", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, raw)
	}

	var res ErrorResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if !strings.Contains(res.Error, "spot price must be positive") {
		t.Fatalf("expected message naming the spot price, got %q", res.Error)
	}
}

func TestMonteCarloEndpointDefaultsAndReproducibility(t *testing.T) {
	// An explicit seed plus defaults for everything else must price the
	// default ATM call identically on every call.
	body := `{"seed":42,"steps":16,"paths":2000}`

	var prices [2]float64
	for i := range prices {
		w, raw := doRequest(t, Config{}, "/api/price", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, raw)
		}
		var res MonteCarloResponse
		if err := json.Unmarshal(raw, &res); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if res.StandardError == nil {
			t.Fatalf("expected a standard error for 2000 paths")
		}
		prices[i] = res.Price
	}

	if prices[0] != prices[1] {
		t.Fatalf("seeded requests disagree: %v vs %v", prices[0], prices[1])
	}
}

func TestMonteCarloEndpointSinglePathNullStderr(t *testing.T) {
	w, raw := doRequest(t, Config{}, "/api/price", `{"seed":7,"steps":4,"paths":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, raw)
	}

	var res MonteCarloResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if res.StandardError != nil {
		t.Fatalf("expected null standard error for one path, got %v", *res.StandardError)
	}
}

func TestMonteCarloEndpointBudgetCeiling(t *testing.T) {
	cfg := Config{MaxBudget: 1000}
	w, raw := doRequest(t, cfg, "/api/price", `{"seed":1,"steps":252,"paths":10000}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, raw)
	}

	var res ErrorResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if !strings.Contains(res.Error, "budget") {
		t.Fatalf("expected budget message, got %q", res.Error)
	}
}

func TestMonteCarloEndpointRejectsBadPayoff(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown variable", `{"seed":1,"steps":4,"paths":10,"payoff":"S - X"}`},
		{"boolean result", `{"seed":1,"steps":4,"paths":10,"payoff":"S > K"}`},
		{"negative volatility", `{"seed":1,"steps":4,"paths":10,"volatility":-0.2}`},
	}

	for _, test := range tests {
		w, raw := doRequest(t, Config{}, "/api/price", test.body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", test.name, w.Code, raw)
		}
	}
}
