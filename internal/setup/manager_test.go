package setup

import (
	"log/slog"
	"testing"

	"github.com/langx-app/server/internal/session"
)

func TestManagerReturnsSameWorkflow(t *testing.T) {
	m := NewManager(session.NewManager(slog.Default()), newFakeProfileRepo(), fakeImageStore{}, slog.Default())

	if m.Get("u1") != m.Get("u1") {
		t.Error("repeated Get for one user should return the same workflow")
	}
	if m.Get("u1") == m.Get("u2") {
		t.Error("different users should get different workflows")
	}
}

func TestManagerDiscardDropsAccumulatedDraft(t *testing.T) {
	m := NewManager(session.NewManager(slog.Default()), newFakeProfileRepo(), fakeImageStore{}, slog.Default())

	wf := m.Get("u1")
	wf.SetName("Anna")
	wf.SetImage("pick")
	if err := wf.Advance(); err != nil {
		t.Fatal(err)
	}

	m.Discard("u1")

	fresh := m.Get("u1")
	if fresh == wf {
		t.Fatal("Get after Discard returned the discarded workflow")
	}
	if fresh.Step() != StepNotStarted {
		t.Errorf("fresh workflow step = %v, want not_started", fresh.Step())
	}
}
