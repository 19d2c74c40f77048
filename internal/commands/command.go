package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/calldesk/internal/model"
)

type Type string

const (
	TypeDays    Type = "days"
	TypeOpen    Type = "open"
	TypeNew     Type = "new"
	TypeRefresh Type = "refresh"
	TypeView    Type = "view"
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

// Entity names what a "new" command opens a form for.
type Entity string

const (
	EntityCall     Entity = "call"
	EntityTask     Entity = "task"
	EntityTag      Entity = "tag"
	EntityTemplate Entity = "template"
)

type DaysArgs struct {
	Days int
}

type OpenArgs struct {
	CallID int64
}

type NewArgs struct {
	Entity Entity
}

type ViewArgs struct {
	Mode string
}

type Command struct {
	Type Type
	Raw  string
	Days *DaysArgs
	Open *OpenArgs
	New  *NewArgs
	View *ViewArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
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
	case TypeDays:
		return parseDays(input, args)
	case TypeOpen:
		return parseOpen(input, args)
	case TypeNew:
		return parseNew(input, args)
	case TypeRefresh:
		return Command{Type: TypeRefresh, Raw: input}, nil
	case TypeView:
		return parseView(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDays(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "days requires a number"}
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("days is not a number: %s", args[0])}
	}
	if err := model.ValidateDays(n); err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("days must be between %d and %d", model.MinDays, model.MaxDays)}
	}
	return Command{Type: TypeDays, Raw: raw, Days: &DaysArgs{Days: n}}, nil
}

func parseOpen(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "open requires a call id"}
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid call id: %s", args[0])}
	}
	return Command{Type: TypeOpen, Raw: raw, Open: &OpenArgs{CallID: id}}, nil
}

func parseNew(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "new requires one of: call, task, tag, template"}
	}
	entity := Entity(strings.ToLower(args[0]))
	switch entity {
	case EntityCall, EntityTask, EntityTag, EntityTemplate:
		return Command{Type: TypeNew, Raw: raw, New: &NewArgs{Entity: entity}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot create %q", args[0])}
	}
}

func parseView(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "view requires user or admin"}
	}
	mode := strings.ToLower(args[0])
	if mode != "user" && mode != "admin" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view: %s", args[0])}
	}
	return Command{Type: TypeView, Raw: raw, View: &ViewArgs{Mode: mode}}, nil
}
