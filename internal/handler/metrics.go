package handler

import (
	"fmt"
	"net/http"

	"github.com/tasknest/tasknest/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "tasknest_users_signed_up_total %d\n", snap.UsersSignedUp)
	writeMetric(w, "tasknest_signins_total{status=\"success\"} %d\n", snap.SignInsSucceeded)
	writeMetric(w, "tasknest_signins_total{status=\"failed\"} %d\n", snap.SignInsFailed)

	writeMetric(w, "tasknest_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "tasknest_managers_assigned_total %d\n", snap.ManagersAssigned)
	writeMetric(w, "tasknest_managers_removed_total %d\n", snap.ManagersRemoved)
	writeMetric(w, "tasknest_comments_created_total %d\n", snap.CommentsCreated)
	writeMetric(w, "tasknest_comments_deleted_total %d\n", snap.CommentsDeleted)

	writeMetric(w, "tasknest_audit_entries_total{status=\"success\"} %d\n", snap.AuditEntriesSucceeded)
	writeMetric(w, "tasknest_audit_entries_total{status=\"failed\"} %d\n", snap.AuditEntriesFailed)
	writeMetric(w, "tasknest_audit_entries_published_total{status=\"success\"} %d\n", snap.AuditEntriesPublished)
	writeMetric(w, "tasknest_audit_entries_published_total{status=\"dropped\"} %d\n", snap.AuditEntriesDropped)

	writeMetric(w, "tasknest_rate_limited_requests_total %d\n", snap.RateLimitedRequests)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
