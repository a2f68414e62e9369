package commands

import (
	"errors"
	"reflect"
	"testing"
)

func commandErrorCode(t *testing.T, err error) ErrorCode {
	t.Helper()
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	return cmdErr.Code
}

func TestParseAdd(t *testing.T) {
	cmd, err := Parse("/add Buy milk and eggs")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypeAdd || cmd.Add == nil {
		t.Fatalf("unexpected command: %#v", cmd)
	}
	if cmd.Add.Title != "Buy milk and eggs" {
		t.Fatalf("unexpected title: %q", cmd.Add.Title)
	}
}

func TestParseDone(t *testing.T) {
	cmd, err := Parse("done task-42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypeDone || cmd.Done.TaskID != "task-42" {
		t.Fatalf("unexpected command: %#v", cmd)
	}
}

func TestParseRemind(t *testing.T) {
	cmd, err := Parse("remind task-42 2026-09-01T09:00 15,60")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypeRemind {
		t.Fatalf("unexpected type: %s", cmd.Type)
	}
	if cmd.Remind.TaskID != "task-42" || cmd.Remind.When != "2026-09-01T09:00" {
		t.Fatalf("unexpected args: %#v", cmd.Remind)
	}
	if !reflect.DeepEqual(cmd.Remind.LeadMinutes, []int{15, 60}) {
		t.Fatalf("unexpected leads: %v", cmd.Remind.LeadMinutes)
	}
}

func TestParsePoll(t *testing.T) {
	cmd, err := Parse("poll")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Type != TypePoll {
		t.Fatalf("unexpected type: %s", cmd.Type)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		input string
		code  ErrorCode
	}{
		{"", ErrCodeEmptyInput},
		{"   ", ErrCodeEmptyInput},
		{"/", ErrCodeEmptyInput},
		{"launch", ErrCodeUnknownCommand},
		{"add", ErrCodeInvalidArgument},
		{"done", ErrCodeInvalidArgument},
		{"done a b", ErrCodeInvalidArgument},
		{"remind task-1 09:00", ErrCodeInvalidArgument},
		{"remind task-1 09:00 fifteen", ErrCodeInvalidArgument},
		{"remind task-1 09:00 -5", ErrCodeInvalidArgument},
		{"poll now", ErrCodeInvalidArgument},
	}
	for _, tc := range cases {
		_, err := Parse(tc.input)
		if err == nil {
			t.Fatalf("expected error for %q", tc.input)
		}
		if code := commandErrorCode(t, err); code != tc.code {
			t.Fatalf("input %q: expected code %s, got %s", tc.input, tc.code, code)
		}
	}
}

func TestExecuteDispatches(t *testing.T) {
	var gotTitle string
	handlers := Handlers{
		Add: func(args AddArgs) (Result, error) {
			gotTitle = args.Title
			return Result{Message: "added"}, nil
		},
	}
	cmd, err := Parse("add Write minutes")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := Execute(cmd, handlers)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Message != "added" || gotTitle != "Write minutes" {
		t.Fatalf("unexpected result: %#v title=%q", res, gotTitle)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("poll")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if code := commandErrorCode(t, err); code != ErrCodeHandlerMissing {
		t.Fatalf("expected handler_missing, got %s", code)
	}
}
