package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/backloop/internal/core/eligibility"
	"github.com/example/backloop/internal/core/evidence"
	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/ports/secondary"
)

// ErrNoSession is returned by step operations when no session is live.
var ErrNoSession = errors.New("no return session in progress")

// ReturnServiceImpl implements the ReturnService interface.
type ReturnServiceImpl struct {
	orderRepo        secondary.OrderRepository
	confirmationRepo secondary.ConfirmationRepository
	executor         EffectExecutor
	wizardCfg        wizard.Config
	logger           *slog.Logger
	now              func() time.Time

	mu      sync.Mutex
	session *wizard.Wizard
}

// NewReturnService creates a new ReturnService with injected dependencies.
// wizardCfg is the template every session is created from; SessionID is
// ignored. CartValue is the default cart value.
func NewReturnService(
	orderRepo secondary.OrderRepository,
	confirmationRepo secondary.ConfirmationRepository,
	executor EffectExecutor,
	wizardCfg wizard.Config,
	logger *slog.Logger,
) *ReturnServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	now := wizardCfg.Now
	if now == nil {
		now = time.Now
	}
	wizardCfg.Now = now
	wizardCfg.SessionID = ""
	return &ReturnServiceImpl{
		orderRepo:        orderRepo,
		confirmationRepo: confirmationRepo,
		executor:         executor,
		wizardCfg:        wizardCfg,
		logger:           logger,
		now:              now,
	}
}

// ListOrders retrieves the purchase history with the actions each item offers.
func (s *ReturnServiceImpl) ListOrders(ctx context.Context) ([]*primary.Order, error) {
	records, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	now := s.now()
	orders := make([]*primary.Order, 0, len(records))
	for _, r := range records {
		order, err := recordToOrder(r)
		if err != nil {
			return nil, err
		}
		orders = append(orders, orderToDTO(order, now))
	}
	return orders, nil
}

// GetOrder retrieves a single order with the actions each item offers.
func (s *ReturnServiceImpl) GetOrder(ctx context.Context, orderID string) (*primary.Order, error) {
	record, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order, err := recordToOrder(record)
	if err != nil {
		return nil, err
	}
	return orderToDTO(order, s.now()), nil
}

// StartSession begins a session for an item, replacing any live session.
// A faulty session is only started while the item offers report-fault.
func (s *ReturnServiceImpl) StartSession(ctx context.Context, req primary.StartSessionRequest) (*primary.Session, error) {
	intent := wizard.Intent(req.Intent)
	if !intent.Valid() {
		return nil, fmt.Errorf("unknown return intent %q (want faulty or recycle)", req.Intent)
	}

	record, err := s.orderRepo.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	item, err := recordToItem(record)
	if err != nil {
		return nil, err
	}

	if intent == wizard.IntentFaulty && !eligibility.CanReportFault(item.Returnable, item.ReturnDeadline, s.now()) {
		return nil, fmt.Errorf("item %s cannot be reported faulty: it is not returnable or its return window has closed", item.ID)
	}

	cfg := s.wizardCfg
	if req.CartValue != nil {
		cfg.CartValue = *req.CartValue
	}
	w, err := wizard.New(intent, item, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.mu.Lock()
	if s.session != nil {
		s.logger.Info("replacing live session", "session_id", s.session.SessionID())
	}
	s.session = w
	s.mu.Unlock()

	s.logger.Info("session started",
		"session_id", w.SessionID(),
		"intent", string(intent),
		"item_id", item.ID,
		"cart_value", cfg.CartValue,
	)

	return s.snapshot(w), nil
}

// CurrentSession returns a snapshot of the live session.
func (s *ReturnServiceImpl) CurrentSession(ctx context.Context) (*primary.Session, error) {
	w, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.snapshot(w), nil
}

// AcceptInstructions records acknowledgment of the return guidelines.
func (s *ReturnServiceImpl) AcceptInstructions(ctx context.Context, accepted bool) (*primary.StepResult, error) {
	return s.act(ctx, "accept_instructions", func(w *wizard.Wizard) wizard.GuardResult {
		return w.AcceptInstructions(accepted)
	})
}

// ContinueToProblem moves Instructions → Problem.
func (s *ReturnServiceImpl) ContinueToProblem(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "continue_to_problem", (*wizard.Wizard).ContinueToProblem)
}

// SelectProblem selects a fault category.
func (s *ReturnServiceImpl) SelectProblem(ctx context.Context, problemID string) (*primary.StepResult, error) {
	return s.act(ctx, "select_problem", func(w *wizard.Wizard) wizard.GuardResult {
		return w.SelectProblem(problemID)
	})
}

// DescribeProblem records the problem description.
func (s *ReturnServiceImpl) DescribeProblem(ctx context.Context, text string) (*primary.StepResult, error) {
	return s.act(ctx, "describe_problem", func(w *wizard.Wizard) wizard.GuardResult {
		return w.DescribeProblem(text)
	})
}

// ContinueToSolution moves Problem → Solution.
func (s *ReturnServiceImpl) ContinueToSolution(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "continue_to_solution", (*wizard.Wizard).ContinueToSolution)
}

// SelectResolution selects exchange or refund.
func (s *ReturnServiceImpl) SelectResolution(ctx context.Context, resolution string) (*primary.StepResult, error) {
	return s.act(ctx, "select_resolution", func(w *wizard.Wizard) wizard.GuardResult {
		return w.SelectResolution(wizard.Resolution(resolution))
	})
}

// ContinueToConfirm moves Solution → Confirm.
func (s *ReturnServiceImpl) ContinueToConfirm(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "continue_to_confirm", (*wizard.Wizard).ContinueToConfirm)
}

// UploadPhoto uploads and inspects a product photo.
func (s *ReturnServiceImpl) UploadPhoto(ctx context.Context, req primary.UploadPhotoRequest) (*primary.StepResult, error) {
	photo := evidence.Photo{Filename: req.Filename, MediaType: req.MediaType, Data: req.Data}
	return s.act(ctx, "upload_photo", func(w *wizard.Wizard) wizard.GuardResult {
		return w.UploadPhoto(ctx, photo)
	})
}

// RemovePhoto clears the photo and its error.
func (s *ReturnServiceImpl) RemovePhoto(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "remove_photo", (*wizard.Wizard).RemovePhoto)
}

// SetCondition records the condition description.
func (s *ReturnServiceImpl) SetCondition(ctx context.Context, text string) (*primary.StepResult, error) {
	return s.act(ctx, "set_condition", func(w *wizard.Wizard) wizard.GuardResult {
		return w.SetCondition(text)
	})
}

// SetReceiptCode records the optional receipt code.
func (s *ReturnServiceImpl) SetReceiptCode(ctx context.Context, code string) (*primary.StepResult, error) {
	return s.act(ctx, "set_receipt_code", func(w *wizard.Wizard) wizard.GuardResult {
		return w.SetReceiptCode(code)
	})
}

// AddCartItem adds a configured add-on item to the cart.
func (s *ReturnServiceImpl) AddCartItem(ctx context.Context, name string) (*primary.StepResult, error) {
	return s.act(ctx, "add_cart_item", func(w *wizard.Wizard) wizard.GuardResult {
		return w.AddCartItem(name)
	})
}

// RequestEstimate generates the recycle estimate.
func (s *ReturnServiceImpl) RequestEstimate(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "request_estimate", func(w *wizard.Wizard) wizard.GuardResult {
		return w.RequestEstimate(ctx)
	})
}

// AcceptEstimate moves Estimate → Confirm.
func (s *ReturnServiceImpl) AcceptEstimate(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "accept_estimate", (*wizard.Wizard).AcceptEstimate)
}

// Back follows the current step's back edge.
func (s *ReturnServiceImpl) Back(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "back", (*wizard.Wizard).Back)
}

// SchedulePickup moves Confirm → Complete.
func (s *ReturnServiceImpl) SchedulePickup(ctx context.Context) (*primary.StepResult, error) {
	return s.act(ctx, "schedule_pickup", (*wizard.Wizard).SchedulePickup)
}

// CloseSession acknowledges a completed session. The close plan stores the
// confirmation, logs it and fires the completion notification; the session
// is discarded either way once the wizard accepts the close.
func (s *ReturnServiceImpl) CloseSession(ctx context.Context) (*primary.Confirmation, error) {
	w, err := s.current()
	if err != nil {
		return nil, err
	}

	c, r := w.Close()
	s.logTransition(w, "close", r)
	if !r.Allowed {
		return nil, r.Error()
	}

	s.mu.Lock()
	if s.session == w {
		s.session = nil
	}
	s.mu.Unlock()

	plan := wizard.GenerateClosePlan(wizard.ClosePlanInput{SessionID: w.SessionID(), Confirmation: c})
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	return confirmationToDTO(c), nil
}

// ListConfirmations retrieves stored confirmations.
func (s *ReturnServiceImpl) ListConfirmations(ctx context.Context, filters primary.ConfirmationFilters) ([]*primary.Confirmation, error) {
	records, err := s.confirmationRepo.List(ctx, secondary.ConfirmationFilters{
		Intent: filters.Intent,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}

	confirmations := make([]*primary.Confirmation, len(records))
	for i, r := range records {
		confirmations[i] = recordToConfirmation(r)
	}
	return confirmations, nil
}

// GetConfirmation retrieves a stored confirmation by request ID.
func (s *ReturnServiceImpl) GetConfirmation(ctx context.Context, requestID string) (*primary.Confirmation, error) {
	if wizard.ParseRequestNumber(requestID) < 0 {
		return nil, fmt.Errorf("invalid request ID %q (want BL- followed by 6 digits)", requestID)
	}

	record, err := s.confirmationRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return recordToConfirmation(record), nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *ReturnServiceImpl) current() (*wizard.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, ErrNoSession
	}
	return s.session, nil
}

// act runs a wizard operation outside the service lock; the wizard
// serializes its own state.
func (s *ReturnServiceImpl) act(ctx context.Context, action string, op func(*wizard.Wizard) wizard.GuardResult) (*primary.StepResult, error) {
	w, err := s.current()
	if err != nil {
		return nil, err
	}

	r := op(w)
	s.logTransition(w, action, r)

	return &primary.StepResult{
		Allowed: r.Allowed,
		Reason:  r.Reason,
		Field:   string(r.Field),
		Session: s.snapshot(w),
	}, nil
}

func (s *ReturnServiceImpl) logTransition(w *wizard.Wizard, action string, r wizard.GuardResult) {
	attrs := []any{
		"session_id", w.SessionID(),
		"action", action,
		"step", string(r.Step),
		"allowed", r.Allowed,
	}
	if r.Allowed {
		s.logger.Debug("transition", attrs...)
		return
	}
	attrs = append(attrs, "field", string(r.Field), "reason", r.Reason)
	s.logger.Info("transition refused", attrs...)
}

func (s *ReturnServiceImpl) snapshot(w *wizard.Wizard) *primary.Session {
	return stateToSession(w.State(), w.AmountToFreePickup(), w.AddOns())
}

var _ primary.ReturnService = (*ReturnServiceImpl)(nil)
