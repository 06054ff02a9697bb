package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDone   Type = "done"
	TypeRemove Type = "rm"
	TypeList   Type = "list"
)

var aliases = map[string]Type{
	"new":      TypeAdd,
	"complete": TypeDone,
	"remove":   TypeRemove,
	"delete":   TypeRemove,
	"ls":       TypeList,
}

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

// Ref addresses a task by its 1-based position in the displayed list or by
// exact name.
type Ref struct {
	Index int
	Name  string
}

type AddArgs struct {
	Name string
	Due  time.Time
}

type EditArgs struct {
	Target Ref
	Name   string
	Due    time.Time
}

type TargetArgs struct {
	Target Ref
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Done   *TargetArgs
	Remove *TargetArgs
}

// Parse reads one palette line. Dates are yyyy-mm-dd, "today" or
// "tomorrow", and always come last.
func Parse(input string, now time.Time) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	if alias, ok := aliases[string(head)]; ok {
		head = alias
	}
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args, now)
	case TypeEdit:
		return parseEdit(input, args, now)
	case TypeDone:
		ref, err := parseRef(args, "done")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeDone, Raw: input, Done: &TargetArgs{Target: ref}}, nil
	case TypeRemove:
		ref, err := parseRef(args, "rm")
		if err != nil {
			return Command{}, err
		}
		return Command{Type: TypeRemove, Raw: input, Remove: &TargetArgs{Target: ref}}, nil
	case TypeList:
		return Command{Type: TypeList, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", parts[0])}
	}
}

func parseAdd(raw string, args []string, now time.Time) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a name and a date"}
	}
	due, err := parseDate(args[len(args)-1], now)
	if err != nil {
		return Command{}, err
	}
	name := strings.TrimSpace(strings.Join(args[:len(args)-1], " "))
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Name: name, Due: due}}, nil
}

func parseEdit(raw string, args []string, now time.Time) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a target, a name and a date"}
	}
	ref, err := parseRef(args[:1], "edit")
	if err != nil {
		return Command{}, err
	}
	due, err := parseDate(args[len(args)-1], now)
	if err != nil {
		return Command{}, err
	}
	name := strings.TrimSpace(strings.Join(args[1:len(args)-1], " "))
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: ref, Name: name, Due: due}}, nil
}

func parseRef(args []string, verb string) (Ref, error) {
	if len(args) == 0 {
		return Ref{}, &CommandError{Code: ErrCodeInvalidArgument, Message: verb + " requires a task number or name"}
	}
	joined := strings.TrimSpace(strings.Join(args, " "))
	var idx int
	if _, err := fmt.Sscanf(joined, "#%d", &idx); err == nil && idx > 0 {
		return Ref{Index: idx}, nil
	}
	if _, err := fmt.Sscanf(joined, "%d", &idx); err == nil && idx > 0 && fmt.Sprint(idx) == joined {
		return Ref{Index: idx}, nil
	}
	return Ref{Name: joined}, nil
}

func parseDate(token string, now time.Time) (time.Time, error) {
	switch strings.ToLower(token) {
	case "today":
		return model.DateOf(now), nil
	case "tomorrow":
		return model.DateOf(now).AddDate(0, 0, 1), nil
	}
	d, err := model.ParseDate(token)
	if err != nil {
		return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return d, nil
}
