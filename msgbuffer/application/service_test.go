package application

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"message-buffer/msgbuffer/domain"
)

type fakeMessageStore struct {
	err      error
	count    int
	appended []domain.Message
	snapshot []domain.Message
}

func (f *fakeMessageStore) Append(m domain.Message) (int, error) {
	if f.err != nil {
		return f.count, f.err
	}
	f.appended = append(f.appended, m)
	return f.count, nil
}

func (f *fakeMessageStore) Snapshot() []domain.Message { return f.snapshot }

type recordingStats struct {
	events []domain.StatsEvent
	err    error
}

func (r *recordingStats) Record(_ context.Context, ev domain.StatsEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestService_Submit_AcceptedLogsCountAndRecords(t *testing.T) {
	store := &fakeMessageStore{count: 3}
	stats := &recordingStats{}
	logger, out := newTestLogger()
	svc := Service{Store: store, Stats: stats, Logger: logger}

	m := domain.Message{Message: "hi", Author: "a"}
	if err := svc.Submit(context.Background(), m); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(store.appended) != 1 || store.appended[0] != m {
		t.Fatalf("expected message to be appended, got %+v", store.appended)
	}
	if !strings.Contains(out.String(), `msg="added message" count=3`) {
		t.Fatalf("expected added message log with count, got %q", out.String())
	}
	if len(stats.events) != 1 {
		t.Fatalf("expected 1 stats event, got %d", len(stats.events))
	}
	ev := stats.events[0]
	if ev.Outcome != domain.OutcomeAccepted || ev.Count != 3 || ev.Length != 2 || ev.Author != "a" {
		t.Fatalf("unexpected stats event %+v", ev)
	}
}

func TestService_Submit_TooLargeLogsLength(t *testing.T) {
	store := &fakeMessageStore{err: domain.ErrMessageTooLarge}
	logger, out := newTestLogger()
	svc := Service{Store: store, Logger: logger}

	err := svc.Submit(context.Background(), domain.Message{Message: "toolong", Author: "b"})
	if !errors.Is(err, domain.ErrMessageTooLarge) {
		t.Fatalf("expected ErrMessageTooLarge, got %v", err)
	}
	if !strings.Contains(out.String(), `msg="message too large" author=b length=7`) {
		t.Fatalf("expected too large log, got %q", out.String())
	}
}

func TestService_Submit_QuotaLogsAuthor(t *testing.T) {
	store := &fakeMessageStore{err: domain.ErrAuthorQuotaExceeded}
	stats := &recordingStats{}
	logger, out := newTestLogger()
	svc := Service{Store: store, Stats: stats, Logger: logger}

	err := svc.Submit(context.Background(), domain.Message{Message: "yo", Author: "a"})
	if !errors.Is(err, domain.ErrAuthorQuotaExceeded) {
		t.Fatalf("expected ErrAuthorQuotaExceeded, got %v", err)
	}
	if !strings.Contains(out.String(), `level=ERROR msg="too many messages" author=a`) {
		t.Fatalf("expected quota log, got %q", out.String())
	}
	if stats.events[0].Outcome != domain.OutcomeQuotaExceeded {
		t.Fatalf("expected quota outcome, got %q", stats.events[0].Outcome)
	}
}

func TestService_Submit_StatsErrorDoesNotFailSubmit(t *testing.T) {
	store := &fakeMessageStore{}
	stats := &recordingStats{err: errors.New("redis down")}
	logger, out := newTestLogger()
	svc := Service{Store: store, Stats: stats, Logger: logger}

	if err := svc.Submit(context.Background(), domain.Message{Message: "hi", Author: "a"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(out.String(), "redis down") {
		t.Fatalf("expected stats error to be logged, got %q", out.String())
	}
}

func TestService_List_ReturnsSnapshot(t *testing.T) {
	want := []domain.Message{{Message: "hi", Author: "a"}, {Message: "yo", Author: "b"}}
	logger, out := newTestLogger()
	svc := Service{Store: &fakeMessageStore{snapshot: want}, Logger: logger}

	got := svc.List(context.Background())
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected list %+v", got)
	}
	if !strings.Contains(out.String(), `msg="returning messages" count=2`) {
		t.Fatalf("expected list log with count, got %q", out.String())
	}
}

func TestService_List_NilSnapshotBecomesEmptySlice(t *testing.T) {
	logger, _ := newTestLogger()
	svc := Service{Store: &fakeMessageStore{snapshot: nil}, Logger: logger}

	got := svc.List(context.Background())
	if got == nil {
		t.Fatalf("expected non-nil empty slice")
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(got))
	}
}
