package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest_Outcomes(t *testing.T) {
	okBefore := promtest.ToFloat64(requestsTotal.WithLabelValues("list", OutcomeOK))
	errBefore := promtest.ToFloat64(requestsTotal.WithLabelValues("list", OutcomeError))

	ObserveRequest("list", nil, 10*time.Millisecond)
	ObserveRequest("list", errors.New("boom"), 10*time.Millisecond)
	ObserveRequest("list", nil, 10*time.Millisecond)

	if got := promtest.ToFloat64(requestsTotal.WithLabelValues("list", OutcomeOK)) - okBefore; got != 2 {
		t.Errorf("expected 2 ok requests, got %v", got)
	}
	if got := promtest.ToFloat64(requestsTotal.WithLabelValues("list", OutcomeError)) - errBefore; got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
}

func TestSetListLength(t *testing.T) {
	SetListLength(3)
	if got := promtest.ToFloat64(listLength); got != 3 {
		t.Errorf("expected gauge 3, got %v", got)
	}
}

func TestRouter_Endpoints(t *testing.T) {
	ObserveRequest("create", nil, time.Millisecond)

	srv := httptest.NewServer(NewRouter(log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from /healthz, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "todos_client_requests_total") {
		t.Error("expected request counter in /metrics output")
	}
}
