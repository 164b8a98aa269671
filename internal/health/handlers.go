package health

import (
	"context"
	"net/http"
	"time"

	"github.com/hanbit-mall/storefront-api/internal/common"
)

// Checker probes the dependencies the storefront cannot serve without.
type Checker interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// Handler serves the liveness and readiness endpoints.
type Handler struct {
	Checker      Checker
	DBTimeout    time.Duration
	RedisTimeout time.Duration
}

// Status is the readiness payload: overall state plus one entry per
// dependency, "ok" or the probe error.
type Status struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Redis  string `json:"redis"`
}

const statusOK = "ok"

// Live reports that the process is up. It never touches dependencies.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Ready probes Postgres and Redis and reports 503 unless both answer.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		common.JSONError(w, http.StatusServiceUnavailable, common.CodeInternal, "health checker not configured", nil)
		return
	}
	ctx := r.Context()
	status := Status{Status: statusOK, DB: statusOK, Redis: statusOK}
	if err := h.Checker.PingDB(ctx, h.dbTimeout()); err != nil {
		status.DB = err.Error()
	}
	if err := h.Checker.PingRedis(ctx, h.redisTimeout()); err != nil {
		status.Redis = err.Error()
	}
	code := http.StatusOK
	if status.DB != statusOK || status.Redis != statusOK {
		status.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	common.JSON(w, code, status)
}

func (h Handler) dbTimeout() time.Duration {
	if h.DBTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.DBTimeout
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
