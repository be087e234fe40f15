package scheduler

import (
	"testing"
	"time"
)

func TestParseCron(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{name: "nightly", expr: "0 4 * * *"},
		{name: "every minute", expr: "* * * * *"},
		{name: "weekly", expr: "30 2 * * 1"},
		{name: "empty", expr: "", wantErr: true},
		{name: "too few fields", expr: "0 4 *", wantErr: true},
		{name: "garbage", expr: "not a cron", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCron(tt.expr)
			if tt.wantErr && err == nil {
				t.Errorf("expected error for %q", tt.expr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error for %q: %v", tt.expr, err)
			}
		})
	}
}

func TestParseCron_Next(t *testing.T) {
	schedule, err := ParseCron("0 4 * * *")
	if err != nil {
		t.Fatal(err)
	}

	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := schedule.Next(from)

	want := time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected next due %v, got %v", want, next)
	}

	// Из времени до 04:00 — тот же день
	from = time.Date(2025, 6, 1, 2, 30, 0, 0, time.UTC)
	next = schedule.Next(from)

	want = time.Date(2025, 6, 1, 4, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected next due %v, got %v", want, next)
	}
}
