package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	router := NewRouter(RouterOptions{
		Ask:            &fakeAsk{},
		Control:        &fakeControl{},
		Ingest:         &fakeIngest{},
		Reader:         &fakeReader{},
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})
	handler, stop := router.Handler()
	defer stop()

	req1 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, req1)
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req2.RemoteAddr = "10.0.0.1:1235"
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	router := NewRouter(RouterOptions{
		Ask:            &fakeAsk{},
		Control:        &fakeControl{},
		Ingest:         &fakeIngest{},
		Reader:         &fakeReader{},
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})
	handler, stop := router.Handler()
	defer stop()

	req1 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req1.RemoteAddr = "10.0.0.1:1234"
	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, req1)

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req2.RemoteAddr = "10.0.0.2:1234"
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusOK {
		t.Fatalf("request from second ip expected 200, got %d", res2.Code)
	}
}
