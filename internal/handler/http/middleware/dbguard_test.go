package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	calls int
	err   error
}

func (f *fakePinger) PingWithRetry(context.Context) error {
	f.calls++
	return f.err
}

func TestDatabaseGuard(t *testing.T) {
	db := &fakePinger{}
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	g := &dbGuard{db: db, now: func() time.Time { return clock }}
	h := databaseGuard(g)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusNoContent, serve("/api/v1/attendance").Code)
	assert.Equal(t, http.StatusNoContent, serve("/api/v1/attendance").Code)
	assert.Equal(t, 1, db.calls, "checks are throttled")

	db.err = errors.New("connection refused")
	clock = clock.Add(6 * time.Second)
	rec := serve("/api/v1/attendance")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "SERVICE_UNAVAILABLE")

	rec = serve("/iclock/cdata")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 2, db.calls)

	db.err = nil
	clock = clock.Add(6 * time.Second)
	assert.Equal(t, http.StatusNoContent, serve("/api/v1/attendance").Code)
}
