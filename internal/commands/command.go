// Package commands parses and dispatches the palette commands. Parsing and
// execution are split so the palette can validate input before any handler
// runs.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeRemind Type = "remind"
	TypePoll   Type = "poll"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

type DoneArgs struct {
	TaskID string
}

// RemindArgs carries the full replacement reminder set for one task: a start
// time expression and the lead times in minutes.
type RemindArgs struct {
	TaskID      string
	When        string
	LeadMinutes []int
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *DoneArgs
	Remind *RemindArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypePoll:
		if len(args) != 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "poll takes no arguments"}
		}
		return Command{Type: TypePoll, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires exactly one task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{TaskID: args[0]}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires task id, time, and lead minutes"}
	}
	leads, err := parseLeads(args[len(args)-1])
	if err != nil {
		return Command{}, err
	}
	when := strings.Join(args[1:len(args)-1], " ")
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{
		TaskID:      args[0],
		When:        when,
		LeadMinutes: leads,
	}}, nil
}

// parseLeads accepts a comma list like "15,60". Every entry must be a
// positive integer.
func parseLeads(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	leads := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v <= 0 {
			return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid lead minutes: %s", part)}
		}
		leads = append(leads, v)
	}
	if len(leads) == 0 {
		return nil, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires at least one lead time"}
	}
	return leads, nil
}
