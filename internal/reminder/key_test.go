package reminder

import "testing"

func TestKeyRoundTrip(t *testing.T) {
	cases := []Key{
		{TaskID: "task-1", LeadMinutes: 15},
		{TaskID: "a_b_c", LeadMinutes: 60},
		{TaskID: "x", LeadMinutes: 1},
	}
	for _, want := range cases {
		got, ok := ParseKey(want.String())
		if !ok {
			t.Fatalf("parse failed for %q", want.String())
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %#v, got %#v", want, got)
		}
	}
}

func TestKeyStringFormat(t *testing.T) {
	key := Key{TaskID: "task-7", LeadMinutes: 30}
	if key.String() != "reminder_task-7_30" {
		t.Fatalf("unexpected key format: %q", key.String())
	}
	if TaskPrefix("task-7") != "reminder_task-7_" {
		t.Fatalf("unexpected task prefix: %q", TaskPrefix("task-7"))
	}
}

func TestParseKeyRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"reminder_",
		"reminder_task-1",
		"reminder_task-1_",
		"reminder__15",
		"reminder_task-1_abc",
		"reminder_task-1_0",
		"reminder_task-1_-5",
		"alarm_task-1_15",
	}
	for _, raw := range cases {
		if _, ok := ParseKey(raw); ok {
			t.Fatalf("expected parse failure for %q", raw)
		}
	}
}
