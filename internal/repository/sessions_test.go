package repository

import (
	"testing"
	"time"

	"core/internal/model"
)

func TestSessionStore_AcquireCreatesOnce(t *testing.T) {
	store := NewSessionStore()

	sess, created, release := store.Acquire("s1")
	if !created {
		t.Error("Expected created=true on first acquire")
	}
	sess.ActiveTemplate = 2
	release()

	again, created, release := store.Acquire("s1")
	if created {
		t.Error("Expected created=false on second acquire")
	}
	if again.ActiveTemplate != 2 {
		t.Errorf("ActiveTemplate = %d, want 2 (state must persist across turns)", again.ActiveTemplate)
	}
	release()

	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestSessionStore_DeleteEvicts(t *testing.T) {
	store := NewSessionStore()

	sess, _, release := store.Acquire("s1")
	sess.Status = model.StatusGenerated
	release()

	store.Delete("s1")
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after delete", store.Len())
	}

	fresh, created, release := store.Acquire("s1")
	if !created {
		t.Error("Expected a fresh session after delete")
	}
	if fresh.Status != model.StatusAwaitingInput {
		t.Errorf("Status = %s, want %s", fresh.Status, model.StatusAwaitingInput)
	}
	release()
}

func TestSessionStore_SerializesSameSession(t *testing.T) {
	store := NewSessionStore()

	sess, _, release := store.Acquire("s1")
	sess.Append(model.RoleUser, "first")

	done := make(chan struct{})
	go func() {
		other, _, rel := store.Acquire("s1")
		other.Append(model.RoleUser, "second")
		rel()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("A second turn ran while the session was still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	<-done

	sess, _, release = store.Acquire("s1")
	defer release()
	n := len(sess.History)
	if n < 2 || sess.History[n-2].Content != "first" || sess.History[n-1].Content != "second" {
		t.Errorf("Turns interleaved, history tail = %v", sess.History[n-2:])
	}
}
