package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Days    func(DaysArgs) (Result, error)
	Open    func(OpenArgs) (Result, error)
	New     func(NewArgs) (Result, error)
	Refresh func() (Result, error)
	View    func(ViewArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDays:
		if handlers.Days == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "days handler not configured"}
		}
		return handlers.Days(*cmd.Days)
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "open handler not configured"}
		}
		return handlers.Open(*cmd.Open)
	case TypeNew:
		if handlers.New == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "new handler not configured"}
		}
		return handlers.New(*cmd.New)
	case TypeRefresh:
		if handlers.Refresh == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "refresh handler not configured"}
		}
		return handlers.Refresh()
	case TypeView:
		if handlers.View == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "view handler not configured"}
		}
		return handlers.View(*cmd.View)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
