package main

import "testing"

func TestEventFromLogLine(t *testing.T) {
	t.Parallel()

	line := `2026/02/27 01:23:45 event=message_delete_failed run_id=msg-1 err="missing permissions"`
	got := eventFromLogLine(line)
	if got != "message_delete_failed" {
		t.Fatalf("eventFromLogLine() = %q, want %q", got, "message_delete_failed")
	}
}

func TestColorForLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "failed is red",
			line: "event=message_delete_failed run_id=msg-1",
			want: ansiRed,
		},
		{
			name: "accepted is green",
			line: "event=count_accepted run_id=msg-1 count=12",
			want: ansiGreen,
		},
		{
			name: "deleted is green",
			line: "event=message_deleted run_id=msg-1",
			want: ansiGreen,
		},
		{
			name: "rejected is yellow",
			line: "event=count_rejected run_id=msg-1 reason=same_author",
			want: ansiYellow,
		},
		{
			name: "filtered is yellow",
			line: "event=message_filtered run_id=msg-1 reason=self_message",
			want: ansiYellow,
		},
		{
			name: "started is blue",
			line: "event=shutdown_started",
			want: ansiBlue,
		},
		{
			name: "tick is cyan",
			line: "event=heartbeat_tick count=3",
			want: ansiCyan,
		},
		{
			name: "no event no color",
			line: "plain text log",
			want: "",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := colorForLine(tc.line); got != tc.want {
				t.Fatalf("colorForLine(%q) = %q, want %q", tc.line, got, tc.want)
			}
		})
	}
}

func TestColorizeLogLine(t *testing.T) {
	t.Parallel()

	line := "event=message_delete_failed run_id=msg-1"
	got := colorizeLogLine(line)
	if got != ansiRed+line+ansiReset {
		t.Fatalf("colorizeLogLine() = %q, want colorized line", got)
	}
}

func TestBoolFromEnvValue(t *testing.T) {
	t.Setenv("KAZOE_LOG_COLOR", "true")
	if got, ok := boolFromEnv("KAZOE_LOG_COLOR"); !ok || !got {
		t.Fatalf("boolFromEnv(true) = (%v, %v), want (true, true)", got, ok)
	}
	t.Setenv("KAZOE_LOG_COLOR", "false")
	if got, ok := boolFromEnv("KAZOE_LOG_COLOR"); !ok || got {
		t.Fatalf("boolFromEnv(false) = (%v, %v), want (false, true)", got, ok)
	}
	t.Setenv("KAZOE_LOG_COLOR", "invalid")
	if got, ok := boolFromEnv("KAZOE_LOG_COLOR"); ok || got {
		t.Fatalf("boolFromEnv(invalid) = (%v, %v), want (false, false)", got, ok)
	}
}
