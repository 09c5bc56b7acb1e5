package service

import (
	"context"

	"go.uber.org/zap"
)

type zapObserver struct {
	logger *zap.Logger
}

// NewZapUseCaseObserver logs events through logger, one structured entry
// per write. A nil logger yields a no-op observer.
func NewZapUseCaseObserver(logger *zap.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &zapObserver{logger: logger.Named("habits")}
}

func (o *zapObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	fields := make([]zap.Field, 0, 4+len(e.Fields))
	fields = append(fields,
		zap.String("use_case", e.Name),
		zap.Duration("duration", e.Duration),
	)
	if e.HabitID != "" {
		fields = append(fields, zap.String("habit", e.HabitID))
	}
	if e.Day != "" {
		fields = append(fields, zap.String("day", string(e.Day)))
	}
	for k, v := range e.Fields {
		fields = append(fields, zap.Any(k, v))
	}

	if e.Err != nil {
		o.logger.Error("habit write failed", append(fields, zap.Error(e.Err))...)
		return
	}
	o.logger.Info("habit write", fields...)
}
