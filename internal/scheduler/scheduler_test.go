package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in         string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"11:00", 11, 0, false},
		{"07:30", 7, 30, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"11h", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (h != tt.wantHour || m != tt.wantMinute) {
				t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	fortaleza := time.FixedZone("BRT", -3*60*60)
	d, err := NewDaily("11:00", fortaleza, nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "before run time",
			now:  time.Date(2026, 10, 19, 9, 0, 0, 0, fortaleza),
			want: time.Date(2026, 10, 19, 11, 0, 0, 0, fortaleza),
		},
		{
			name: "exactly at run time goes to tomorrow",
			now:  time.Date(2026, 10, 19, 11, 0, 0, 0, fortaleza),
			want: time.Date(2026, 10, 20, 11, 0, 0, 0, fortaleza),
		},
		{
			name: "after run time",
			now:  time.Date(2026, 10, 19, 15, 0, 0, 0, fortaleza),
			want: time.Date(2026, 10, 20, 11, 0, 0, 0, fortaleza),
		},
		{
			name: "month rollover",
			now:  time.Date(2026, 10, 31, 12, 0, 0, 0, fortaleza),
			want: time.Date(2026, 11, 1, 11, 0, 0, 0, fortaleza),
		},
		{
			name: "input in UTC",
			now:  time.Date(2026, 10, 19, 13, 30, 0, 0, time.UTC), // 10:30 in Fortaleza
			want: time.Date(2026, 10, 19, 11, 0, 0, 0, fortaleza),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.NextRun(tt.now); !got.Equal(tt.want) {
				t.Errorf("NextRun(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

// tick fires every interval, standing in for the daily schedule
type tick struct {
	interval time.Duration
}

func (t tick) Next(now time.Time) time.Time {
	return now.Add(t.interval)
}

func TestNewDaily_Spec(t *testing.T) {
	d, err := NewDaily("07:05", time.UTC, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Spec() != "5 7 * * *" {
		t.Errorf("Spec() = %q, want %q", d.Spec(), "5 7 * * *")
	}

	if _, err := NewDaily("noon", time.UTC, nil); err == nil {
		t.Error("NewDaily(\"noon\") expected error")
	}
}

func TestRun_RunsJobAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	d, err := NewDaily("11:00", time.UTC, func(ctx context.Context) error {
		if atomic.AddInt32(&runs, 1) == 2 {
			cancel()
		}
		return errors.New("job errors do not stop the schedule")
	})
	if err != nil {
		t.Fatal(err)
	}
	d.schedule = tick{interval: 10 * time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if got := atomic.LoadInt32(&runs); got != 2 {
		t.Errorf("job ran %d times, want 2", got)
	}
}

func TestRun_StopsWithoutRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	d, err := NewDaily("11:00", time.UTC, func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if ran {
		t.Error("job ran although the schedule never fired")
	}
}
