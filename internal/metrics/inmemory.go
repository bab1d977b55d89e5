package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersSignedUp         uint64
	SignInsSucceeded      uint64
	SignInsFailed         uint64
	TodosCreated          uint64
	ManagersAssigned      uint64
	ManagersRemoved       uint64
	CommentsCreated       uint64
	CommentsDeleted       uint64
	AuditEntriesSucceeded uint64
	AuditEntriesFailed    uint64
	AuditEntriesPublished uint64
	AuditEntriesDropped   uint64
	RateLimitedRequests   uint64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	usersSignedUp         atomic.Uint64
	signInsSucceeded      atomic.Uint64
	signInsFailed         atomic.Uint64
	todosCreated          atomic.Uint64
	managersAssigned      atomic.Uint64
	managersRemoved       atomic.Uint64
	commentsCreated       atomic.Uint64
	commentsDeleted       atomic.Uint64
	auditEntriesSucceeded atomic.Uint64
	auditEntriesFailed    atomic.Uint64
	auditEntriesPublished atomic.Uint64
	auditEntriesDropped   atomic.Uint64
	rateLimitedRequests   atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersSignedUp:         m.usersSignedUp.Load(),
		SignInsSucceeded:      m.signInsSucceeded.Load(),
		SignInsFailed:         m.signInsFailed.Load(),
		TodosCreated:          m.todosCreated.Load(),
		ManagersAssigned:      m.managersAssigned.Load(),
		ManagersRemoved:       m.managersRemoved.Load(),
		CommentsCreated:       m.commentsCreated.Load(),
		CommentsDeleted:       m.commentsDeleted.Load(),
		AuditEntriesSucceeded: m.auditEntriesSucceeded.Load(),
		AuditEntriesFailed:    m.auditEntriesFailed.Load(),
		AuditEntriesPublished: m.auditEntriesPublished.Load(),
		AuditEntriesDropped:   m.auditEntriesDropped.Load(),
		RateLimitedRequests:   m.rateLimitedRequests.Load(),
	}
}

// IncUserSignedUp increments the signup counter.
func (m *InMemoryRecorder) IncUserSignedUp() {
	m.usersSignedUp.Add(1)
}

// IncSignIn increments the signin counter for status.
func (m *InMemoryRecorder) IncSignIn(status string) {
	if status == StatusSuccess {
		m.signInsSucceeded.Add(1)
		return
	}
	m.signInsFailed.Add(1)
}

// IncTodoCreated increments todo created counter.
func (m *InMemoryRecorder) IncTodoCreated() {
	m.todosCreated.Add(1)
}

// IncManagerAssigned increments manager assigned counter.
func (m *InMemoryRecorder) IncManagerAssigned() {
	m.managersAssigned.Add(1)
}

// IncManagerRemoved increments manager removed counter.
func (m *InMemoryRecorder) IncManagerRemoved() {
	m.managersRemoved.Add(1)
}

// IncCommentCreated increments comment created counter.
func (m *InMemoryRecorder) IncCommentCreated() {
	m.commentsCreated.Add(1)
}

// IncCommentDeleted increments comment deleted counter.
func (m *InMemoryRecorder) IncCommentDeleted() {
	m.commentsDeleted.Add(1)
}

// IncAuditEntry counts a completed audited admin call.
func (m *InMemoryRecorder) IncAuditEntry(status string) {
	if status == StatusSuccess {
		m.auditEntriesSucceeded.Add(1)
		return
	}
	m.auditEntriesFailed.Add(1)
}

// IncAuditPublished counts audit stream publishes.
func (m *InMemoryRecorder) IncAuditPublished(status string) {
	if status == StatusSuccess {
		m.auditEntriesPublished.Add(1)
		return
	}
	m.auditEntriesDropped.Add(1)
}

// IncRateLimited counts requests rejected by the rate limiter.
func (m *InMemoryRecorder) IncRateLimited() {
	m.rateLimitedRequests.Add(1)
}
