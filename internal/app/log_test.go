package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIdxHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "run-123",
			level:   slog.LevelInfo,
			message: "author indexable saved",
			want:    "2024-06-15T14:30:45Z\tINFO\trun-123\tauthor indexable saved\n",
		},
		{
			name:    "warn level",
			runID:   "run-456",
			level:   slog.LevelWarn,
			message: "no handler for scheduled event",
			want:    "2024-06-15T14:30:45Z\tWARN\trun-456\tno handler for scheduled event\n",
		},
		{
			name:    "with record attrs",
			runID:   "run-789",
			level:   slog.LevelInfo,
			message: "taxonomies made public",
			attrs:   []slog.Attr{slog.String("taxonomies", "genre,format"), slog.Int("user_id", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\trun-789\ttaxonomies made public\ttaxonomies=genre,format\tuser_id=42\n",
		},
		{
			name:    "values with whitespace are quoted",
			runID:   "run-1",
			level:   slog.LevelInfo,
			message: "author indexable removed",
			attrs:   []slog.Attr{slog.String("reason", "archives are disabled")},
			want:    "2024-06-15T14:30:45Z\tINFO\trun-1\tauthor indexable removed\treason=\"archives are disabled\"\n",
		},
		{
			name:    "group attrs are flattened",
			runID:   "run-2",
			level:   slog.LevelInfo,
			message: "cleanup",
			attrs:   []slog.Attr{slog.Group("batch", slog.Int("size", 10), slog.Int("deleted", 3))},
			want:    "2024-06-15T14:30:45Z\tINFO\trun-2\tcleanup\tbatch.size=10\tbatch.deleted=3\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newIdxHandler(&buf, tt.runID, nil)

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestIdxHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newIdxHandler(&buf, "run-1", nil)

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "watcher")})

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "checked", 0)
	r.AddAttrs(slog.String("request", "navigational"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=watcher") {
		t.Errorf("expected pre-set attr component=watcher, got: %q", got)
	}
	if !strings.Contains(got, "request=navigational") {
		t.Errorf("expected record attr request=navigational, got: %q", got)
	}
}

func TestIdxHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	h := newIdxHandler(&bytes.Buffer{}, "run-1", nil)
	h.attrs = []slog.Attr{slog.String("a", "1")}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*idxHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestIdxHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newIdxHandler(&buf, "run-1", nil)).WithGroup("cache").With("type", "redis")

	logger.Info("connected", "db", 2)

	got := buf.String()
	if !strings.Contains(got, "\tcache.type=redis") || !strings.Contains(got, "\tcache.db=2") {
		t.Errorf("expected group-prefixed keys, got: %q", got)
	}
}

func TestIdxHandler_Enabled(t *testing.T) {
	all := newIdxHandler(nil, "", nil)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !all.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false without a threshold", level)
		}
	}

	info := newIdxHandler(nil, "", slog.LevelInfo)
	if info.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(DEBUG) = true with an INFO threshold")
	}
	if !info.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Enabled(WARN) = false with an INFO threshold")
	}
}

func TestNewLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	logger, f, err := newLogger(dir, "test-run")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(filepath.Join(dir, "idx.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\ttest-run\thello\tk=v") {
		t.Errorf("log file = %q, want the hello record", data)
	}
}
