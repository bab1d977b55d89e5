package metrics

import (
	"sync"
	"testing"
)

func TestInMemoryRecorder_Counters(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	m.IncUserSignedUp()
	m.IncSignIn(StatusSuccess)
	m.IncSignIn(StatusFailed)
	m.IncTodoCreated()
	m.IncManagerAssigned()
	m.IncManagerRemoved()
	m.IncCommentCreated()
	m.IncCommentDeleted()
	m.IncAuditEntry(StatusSuccess)
	m.IncAuditEntry(StatusFailed)
	m.IncAuditPublished(StatusSuccess)
	m.IncAuditPublished(StatusDropped)
	m.IncRateLimited()

	want := Snapshot{
		UsersSignedUp:         1,
		SignInsSucceeded:      1,
		SignInsFailed:         1,
		TodosCreated:          1,
		ManagersAssigned:      1,
		ManagersRemoved:       1,
		CommentsCreated:       1,
		CommentsDeleted:       1,
		AuditEntriesSucceeded: 1,
		AuditEntriesFailed:    1,
		AuditEntriesPublished: 1,
		AuditEntriesDropped:   1,
		RateLimitedRequests:   1,
	}
	if got := m.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestInMemoryRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	m := NewInMemory()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncTodoCreated()
		}()
	}
	wg.Wait()

	if got := m.Snapshot().TodosCreated; got != 50 {
		t.Errorf("TodosCreated = %d, want 50", got)
	}
}

func TestNoop_ImplementsRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder = NewNoop()
	r.IncTodoCreated()
	r.IncAuditEntry(StatusSuccess)
}
