// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/example/backloop/internal/core/effects"
	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place I/O happens.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error
}

// NotifyFunc receives session events such as "completed".
type NotifyFunc func(event, sessionID string)

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	confirmations secondary.ConfirmationRepository
	logger        *slog.Logger
	notify        NotifyFunc
}

// NewEffectExecutor creates a new DefaultEffectExecutor. A nil logger uses
// slog.Default(); a nil notify drops notifications.
func NewEffectExecutor(confirmations secondary.ConfirmationRepository, logger *slog.Logger, notify NotifyFunc) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultEffectExecutor{
		confirmations: confirmations,
		logger:        logger,
		notify:        notify,
	}
}

// Execute processes a slice of effects, executing each in sequence.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.PersistEffect:
		return e.executePersist(ctx, typed)
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	case effects.NotifyEffect:
		if e.notify != nil {
			e.notify(typed.Event, typed.SessionID)
		}
		return nil
	case effects.CompositeEffect:
		return e.Execute(ctx, typed.Effects)
	case effects.NoEffect:
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executePersist(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Entity {
	case "confirmation":
		return e.executeConfirmationOp(ctx, eff)
	default:
		return fmt.Errorf("unknown entity: %s", eff.Entity)
	}
}

func (e *DefaultEffectExecutor) executeConfirmationOp(ctx context.Context, eff effects.PersistEffect) error {
	switch eff.Operation {
	case "create":
		c, ok := eff.Data.(wizard.Confirmation)
		if !ok {
			return fmt.Errorf("invalid confirmation create data type: %T", eff.Data)
		}
		return e.confirmations.Create(ctx, confirmationToRecord(c))
	default:
		return fmt.Errorf("unknown confirmation operation: %s", eff.Operation)
	}
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	attrs := make([]any, 0, len(eff.Fields)*2)
	for _, k := range slices.Sorted(maps.Keys(eff.Fields)) {
		attrs = append(attrs, k, eff.Fields[k])
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(eff.Level)); err != nil {
		level = slog.LevelInfo
	}
	e.logger.Log(ctx, level, eff.Message, attrs...)
}

var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
