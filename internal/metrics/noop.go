package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserSignedUp()                {}
func (n *NoopRecorder) IncSignIn(status string)         {}
func (n *NoopRecorder) IncTodoCreated()                 {}
func (n *NoopRecorder) IncManagerAssigned()             {}
func (n *NoopRecorder) IncManagerRemoved()              {}
func (n *NoopRecorder) IncCommentCreated()              {}
func (n *NoopRecorder) IncCommentDeleted()              {}
func (n *NoopRecorder) IncAuditEntry(status string)     {}
func (n *NoopRecorder) IncAuditPublished(status string) {}
func (n *NoopRecorder) IncRateLimited()                 {}
