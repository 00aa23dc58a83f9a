package notify

import (
	"testing"
	"time"

	"github.com/mmeshcher/shopfront-client/internal/model"
)

func TestPost_SetsCurrent(t *testing.T) {
	c := NewChannel(time.Minute)

	c.Post("purchase completed", model.SeveritySuccess)

	got := c.Current()
	if got == nil {
		t.Fatalf("Current = nil after Post")
	}
	if got.Message != "purchase completed" || got.Severity != model.SeveritySuccess {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if got.PostedAt.IsZero() {
		t.Fatalf("PostedAt not set")
	}
}

func TestPost_NewestWins(t *testing.T) {
	c := NewChannel(time.Minute)

	c.Post("message A", model.SeverityInfo)
	c.Post("message B", model.SeverityError)

	got := c.Current()
	if got == nil || got.Message != "message B" {
		t.Fatalf("Current = %+v, want message B", got)
	}
}

func TestExpiry_ClearsCurrent(t *testing.T) {
	c := NewChannel(20 * time.Millisecond)

	c.Post("short lived", model.SeverityInfo)

	deadline := time.After(time.Second)
	for c.Current() != nil {
		select {
		case <-deadline:
			t.Fatalf("notification did not expire")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSupersededTimerDoesNotClearNewerMessage(t *testing.T) {
	c := NewChannel(100 * time.Millisecond)

	c.Post("message A", model.SeverityInfo)
	time.Sleep(50 * time.Millisecond)
	c.Post("message B", model.SeveritySuccess)

	// Момент, когда истёк бы таймер сообщения A.
	time.Sleep(70 * time.Millisecond)

	got := c.Current()
	if got == nil || got.Message != "message B" {
		t.Fatalf("Current = %+v, want message B still active", got)
	}

	// Собственный таймер сообщения B гасит его в срок.
	deadline := time.After(time.Second)
	for c.Current() != nil {
		select {
		case <-deadline:
			t.Fatalf("message B did not expire")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	c := NewChannel(time.Minute)

	c.Post("original", model.SeverityInfo)

	got := c.Current()
	got.Message = "mutated"

	if c.Current().Message != "original" {
		t.Fatalf("Current must return a copy")
	}
}
