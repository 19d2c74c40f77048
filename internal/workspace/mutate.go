package workspace

import (
	"context"
	"log/slog"
)

// refresher reloads one read model after a mutation.
type refresher func(ctx context.Context) error

// mutateThenRefetch runs mutate and then each refresher strictly in order,
// stopping at the first error.
func mutateThenRefetch(ctx context.Context, mutate func(context.Context) error, refreshers ...refresher) error {
	if err := mutate(ctx); err != nil {
		return err
	}
	for _, refresh := range refreshers {
		if err := refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// outcome notifies the result of a workflow and logs failures.
type outcome struct {
	notifier Notifier
	logger   *slog.Logger
}

func (o outcome) report(ctx context.Context, err error, success, failure string) {
	if err != nil {
		o.logger.ErrorContext(ctx, failure, "error", err)
		o.notifier.Notify(KindError, failure)
		return
	}
	o.logger.InfoContext(ctx, success)
	o.notifier.Notify(KindSuccess, success)
}

// Confirmation gates a destructive action behind an explicit confirm step.
type Confirmation struct {
	Title   string
	Message string
	confirm func(ctx context.Context)
}

// Confirm performs the gated action.
func (c Confirmation) Confirm(ctx context.Context) {
	if c.confirm != nil {
		c.confirm(ctx)
	}
}
