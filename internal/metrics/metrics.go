// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Audit and publish statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusDropped = "dropped"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserSignedUp()
	IncSignIn(status string) // status: "success" or "failed"

	// Todo metrics
	IncTodoCreated()
	IncManagerAssigned()
	IncManagerRemoved()
	IncCommentCreated()
	IncCommentDeleted()

	// Admin audit metrics
	IncAuditEntry(status string)     // status: "success" or "failed"
	IncAuditPublished(status string) // status: "success" or "dropped"

	// Edge metrics
	IncRateLimited()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
