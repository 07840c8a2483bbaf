package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

type fakeExchanger struct {
	token *oauth2.Token
	err   error
	codes []string
}

func (f *fakeExchanger) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	f.codes = append(f.codes, code)
	return f.token, f.err
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Exchanges Code", func(t *testing.T) {
		exchanger := &fakeExchanger{token: &oauth2.Token{AccessToken: "tok"}}
		handler := NewCallbackHandler(exchanger, "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "tok" {
			t.Errorf("unexpected token: %+v", result.Token)
		}
		if len(exchanger.codes) != 1 || exchanger.codes[0] != "abc" {
			t.Errorf("unexpected codes exchanged: %v", exchanger.codes)
		}
	})

	t.Run("Rejects Bad State", func(t *testing.T) {
		handler := NewCallbackHandler(&fakeExchanger{}, "expected")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=abc", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("Reports Denied Authorization", func(t *testing.T) {
		handler := NewCallbackHandler(&fakeExchanger{}, "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&error=access_denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		exchanger := &fakeExchanger{token: &oauth2.Token{AccessToken: "tok"}}
		handler := NewCallbackHandler(exchanger, "state123")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=xyz", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", second.Code)
		}
		if len(exchanger.codes) != 1 {
			t.Errorf("code exchanged more than once: %v", exchanger.codes)
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		exchanger := &fakeExchanger{err: fmt.Errorf("boom")}
		handler := NewCallbackHandler(exchanger, "state123")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=abc", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-handler.Result(); result.Error() == nil {
			t.Error("expected an error result")
		}
	})
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	wrapped := CORS("http://localhost:3000")(next)

	t.Run("Sets Headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("unexpected origin header %q", got)
		}
		if rec.Code != http.StatusTeapot {
			t.Errorf("expected downstream status, got %d", rec.Code)
		}
	})

	t.Run("Preflight Short Circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/convert", nil))

		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204 for preflight, got %d", rec.Code)
		}
	})
}
