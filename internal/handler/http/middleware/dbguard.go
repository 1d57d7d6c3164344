package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/handler/http/response"
)

const dbCheckInterval = 5 * time.Second

// Pinger checks the database, reconnecting once on a transient failure.
type Pinger interface {
	PingWithRetry(ctx context.Context) error
}

type dbGuard struct {
	db  Pinger
	now func() time.Time

	mu        sync.Mutex
	checkedAt time.Time
	healthy   bool
}

// check pings at most once per dbCheckInterval and reuses the last result
// in between.
func (g *dbGuard) check(ctx context.Context) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if !g.checkedAt.IsZero() && now.Sub(g.checkedAt) < dbCheckInterval {
		return g.healthy
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := g.db.PingWithRetry(pingCtx)
	if err != nil {
		slog.Error("Database health check failed", "error", err)
	} else if !g.healthy && !g.checkedAt.IsZero() {
		slog.Info("Database connection restored")
	}
	g.checkedAt = now
	g.healthy = err == nil
	return g.healthy
}

// DatabaseGuard answers 503 while the database cannot be reached. API paths
// get the JSON envelope, everything else plain text.
func DatabaseGuard(db Pinger) func(http.Handler) http.Handler {
	return databaseGuard(&dbGuard{db: db, now: time.Now})
}

func databaseGuard(g *dbGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.check(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			if strings.HasPrefix(r.URL.Path, "/api/") {
				response.ServiceUnavailable(w, "Database temporarily unavailable, please retry")
				return
			}
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		})
	}
}
