package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/backloop/internal/core/catalog"
	"github.com/example/backloop/internal/core/estimate"
	"github.com/example/backloop/internal/core/evidence"
)

const (
	msgPhotoProcessing   = "Error processing image. Please try again."
	msgEstimateCancelled = "estimate was interrupted, please try again"
	msgSuperseded        = "photo upload was replaced by a newer upload"
)

// PhotoValidator inspects an uploaded photo. A rejection is returned as a
// *evidence.PhotoError.
type PhotoValidator interface {
	ValidatePhoto(ctx context.Context, photo evidence.Photo) error
}

// ReceiptValidator checks an optional receipt code. A rejection is returned
// as a *evidence.ReceiptError.
type ReceiptValidator interface {
	ValidateReceipt(code string) error
}

// AddOnItem is an item the user can add to the cart to reach free pickup.
type AddOnItem struct {
	Name  string
	Price int64
}

// Config carries the collaborators and settings of a wizard.
type Config struct {
	Pricing       estimate.Pricing
	Photos        PhotoValidator
	Receipts      ReceiptValidator
	EstimateDelay time.Duration
	Wait          evidence.Delay   // defaults to evidence.Sleep
	Now           func() time.Time // defaults to time.Now
	SupportPhone  string
	AddOns        []AddOnItem
	CartValue     int64
	SessionID     string // generated when empty
}

// Evidence accumulates the user's answers. Faulty fields are never read on
// the recycle track and vice versa.
type Evidence struct {
	// Faulty track
	InstructionsAccepted bool
	ProblemID            string
	Description          string
	Resolution           Resolution

	// Recycle track
	Photo         *evidence.Photo
	PhotoAccepted bool
	Condition     string
	ReceiptCode   string
}

// State is a snapshot of a wizard for rendering.
type State struct {
	SessionID    string
	Intent       Intent
	Item         catalog.Item
	Step         Step
	Evidence     Evidence
	CartValue    int64
	Estimate     *estimate.Result
	PhotoError   string
	ReceiptError string
	SupportHint  string // shown alongside photo errors
	Confirmation *Confirmation
	Closed       bool
}

// Processing reports whether an upload or estimate is in flight.
func (s State) Processing() bool {
	return IsProcessing(s.Step)
}

// Wizard is one live return session. All mutation goes through its methods.
// It is safe to read State while an upload or estimate is in flight.
type Wizard struct {
	mu  sync.Mutex
	cfg Config

	sessionID string
	intent    Intent
	item      catalog.Item
	step      Step
	ev        Evidence
	cartValue int64

	result       *estimate.Result
	photoErr     string
	receiptErr   string
	confirmation *Confirmation

	uploadGen uint64
	closed    bool
}

// New creates a wizard for the item, entering the intent's initial step.
func New(intent Intent, item catalog.Item, cfg Config) (*Wizard, error) {
	if !intent.Valid() {
		return nil, fmt.Errorf("unknown return intent %q", intent)
	}
	if cfg.Photos == nil {
		return nil, errors.New("photo validator is required")
	}
	if cfg.Receipts == nil {
		return nil, errors.New("receipt validator is required")
	}
	if cfg.Pricing == (estimate.Pricing{}) {
		cfg.Pricing = estimate.DefaultPricing()
	}
	if cfg.Wait == nil {
		cfg.Wait = evidence.Sleep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}

	return &Wizard{
		cfg:       cfg,
		sessionID: cfg.SessionID,
		intent:    intent,
		item:      item,
		step:      InitialStep(intent),
		cartValue: cfg.CartValue,
	}, nil
}

// SessionID returns the session identifier.
func (w *Wizard) SessionID() string { return w.sessionID }

// Intent returns the intent chosen at construction.
func (w *Wizard) Intent() Intent { return w.intent }

// State returns a snapshot of the wizard.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := State{
		SessionID:    w.sessionID,
		Intent:       w.intent,
		Item:         w.item,
		Step:         w.step,
		Evidence:     w.ev,
		CartValue:    w.cartValue,
		PhotoError:   w.photoErr,
		ReceiptError: w.receiptErr,
		Closed:       w.closed,
	}
	if w.photoErr != "" {
		s.SupportHint = w.cfg.SupportPhone
	}
	if w.result != nil {
		r := *w.result
		s.Estimate = &r
	}
	if w.confirmation != nil {
		c := *w.confirmation
		s.Confirmation = &c
	}
	return s
}

// AmountToFreePickup returns how much more cart value waives the pickup fee.
func (w *Wizard) AmountToFreePickup() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return estimate.AmountToFreePickup(w.cfg.Pricing, w.cartValue)
}

// AddOns returns the items that can be added to the cart.
func (w *Wizard) AddOns() []AddOnItem {
	return append([]AddOnItem(nil), w.cfg.AddOns...)
}

func (w *Wizard) open() (GuardResult, bool) {
	if w.closed {
		return refuse(w.step, FieldStep, "session is closed"), false
	}
	return GuardResult{}, true
}

// --- Faulty track ---

// AcceptInstructions records the user's acknowledgment of the return guidelines.
func (w *Wizard) AcceptInstructions(accepted bool) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r, ok := requireStep(w.step, StepInstructions, "acknowledge instructions"); !ok {
		return r
	}
	w.ev.InstructionsAccepted = accepted
	return allow(w.step)
}

// ContinueToProblem moves Instructions → Problem.
func (w *Wizard) ContinueToProblem() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	r := CanContinueToProblem(InstructionsContext{Step: w.step, Accepted: w.ev.InstructionsAccepted})
	if r.Allowed {
		w.step = StepProblem
	}
	return r
}

// SelectProblem selects a fault category.
func (w *Wizard) SelectProblem(id string) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r, ok := requireStep(w.step, StepProblem, "select a problem"); !ok {
		return r
	}
	if _, ok := LookupProblem(id); !ok {
		return refuse(w.step, FieldProblem, fmt.Sprintf("unknown problem %q", id))
	}
	w.ev.ProblemID = id
	return allow(w.step)
}

// DescribeProblem records the free-text problem description.
func (w *Wizard) DescribeProblem(text string) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r, ok := requireStep(w.step, StepProblem, "describe the problem"); !ok {
		return r
	}
	w.ev.Description = text
	return allow(w.step)
}

// ContinueToSolution moves Problem → Solution.
func (w *Wizard) ContinueToSolution() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	r := CanContinueToSolution(ProblemContext{
		Step:        w.step,
		ProblemID:   w.ev.ProblemID,
		Description: w.ev.Description,
	})
	if r.Allowed {
		w.step = StepSolution
	}
	return r
}

// SelectResolution selects exchange or refund.
func (w *Wizard) SelectResolution(res Resolution) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r, ok := requireStep(w.step, StepSolution, "select a resolution"); !ok {
		return r
	}
	if !res.Valid() {
		return refuse(w.step, FieldResolution, fmt.Sprintf("unknown resolution %q", res))
	}
	w.ev.Resolution = res
	return allow(w.step)
}

// ContinueToConfirm moves Solution → Confirm.
func (w *Wizard) ContinueToConfirm() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	r := CanContinueToConfirm(SolutionContext{Step: w.step, Resolution: w.ev.Resolution})
	if r.Allowed {
		w.step = StepConfirm
	}
	return r
}

// --- Recycle track ---

// UploadPhoto stores the photo and blocks while it is inspected. The wizard
// is in StepUploading meanwhile. A newer upload (or RemovePhoto) replaces a
// pending one; the replaced call returns a refused result and its
// inspection outcome is discarded.
func (w *Wizard) UploadPhoto(ctx context.Context, photo evidence.Photo) GuardResult {
	w.mu.Lock()
	if r, ok := w.open(); !ok {
		w.mu.Unlock()
		return r
	}
	if r := CanUploadPhoto(w.step); !r.Allowed {
		w.mu.Unlock()
		return r
	}
	w.uploadGen++
	gen := w.uploadGen
	w.step = StepUploading
	p := photo
	w.ev.Photo = &p
	w.ev.PhotoAccepted = false
	w.photoErr = ""
	w.mu.Unlock()

	err := w.cfg.Photos.ValidatePhoto(ctx, photo)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.uploadGen != gen {
		return refuse(StepUploading, FieldPhoto, msgSuperseded)
	}
	w.step = StepUpload

	var perr *evidence.PhotoError
	switch {
	case err == nil:
		w.ev.PhotoAccepted = true
		return allow(StepUpload)
	case errors.As(err, &perr):
		w.photoErr = perr.Message
	default:
		w.ev.Photo = nil
		w.photoErr = msgPhotoProcessing
	}
	return refuse(StepUpload, FieldPhoto, w.photoErr)
}

// RemovePhoto clears the photo and its error, cancelling any pending upload.
func (w *Wizard) RemovePhoto() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r := CanUploadPhoto(w.step); !r.Allowed {
		return r
	}
	w.uploadGen++
	w.step = StepUpload
	w.ev.Photo = nil
	w.ev.PhotoAccepted = false
	w.photoErr = ""
	return allow(w.step)
}

// SetCondition records the free-text condition description.
func (w *Wizard) SetCondition(text string) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r := CanEditEvidence(w.step, FieldCondition); !r.Allowed {
		return r
	}
	w.ev.Condition = text
	return allow(w.step)
}

// SetReceiptCode records the optional receipt code and clears its error.
func (w *Wizard) SetReceiptCode(code string) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r := CanEditEvidence(w.step, FieldReceipt); !r.Allowed {
		return r
	}
	w.ev.ReceiptCode = code
	w.receiptErr = ""
	return allow(w.step)
}

// AddCartItem adds a configured add-on item's price to the cart value.
// A computed estimate is not changed; the new value applies to the next one.
func (w *Wizard) AddCartItem(name string) GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	if r := CanAddCartItem(w.step); !r.Allowed {
		return r
	}
	for _, item := range w.cfg.AddOns {
		if item.Name == name {
			w.cartValue += item.Price
			return allow(w.step)
		}
	}
	return refuse(w.step, FieldCart, fmt.Sprintf("unknown add-on item %q", name))
}

// RequestEstimate moves Upload → Estimate. The receipt code, if any, is
// validated first; a failure leaves the wizard on Upload with the receipt
// error attached. Otherwise the wizard is in StepEstimating while the
// estimate is generated, then lands on Estimate, or back on Upload if the
// wait is abandoned.
func (w *Wizard) RequestEstimate(ctx context.Context) GuardResult {
	w.mu.Lock()
	if r, ok := w.open(); !ok {
		w.mu.Unlock()
		return r
	}
	r := CanRequestEstimate(UploadContext{
		Step:          w.step,
		HasPhoto:      w.ev.Photo != nil,
		PhotoAccepted: w.ev.PhotoAccepted,
		Condition:     w.ev.Condition,
		PhotoError:    w.photoErr,
		ReceiptError:  w.receiptErr,
	})
	if !r.Allowed {
		w.mu.Unlock()
		return r
	}

	code := w.ev.ReceiptCode
	if err := w.cfg.Receipts.ValidateReceipt(code); err != nil {
		w.receiptErr = err.Error()
		var rerr *evidence.ReceiptError
		if errors.As(err, &rerr) {
			w.receiptErr = rerr.Message
		}
		msg := w.receiptErr
		w.mu.Unlock()
		return refuse(StepUpload, FieldReceipt, msg)
	}

	item, condition, cart := w.item, w.ev.Condition, w.cartValue
	w.step = StepEstimating
	w.mu.Unlock()

	waitErr := w.cfg.Wait(ctx, w.cfg.EstimateDelay)
	res := estimate.Estimate(w.cfg.Pricing, item, condition, code != "", cart)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return refuse(StepEstimating, FieldStep, "session is closed")
	}
	if waitErr != nil {
		w.step = StepUpload
		return refuse(StepUpload, FieldNone, msgEstimateCancelled)
	}
	w.result = &res
	w.step = StepEstimate
	return allow(StepEstimating)
}

// AcceptEstimate moves Estimate → Confirm.
func (w *Wizard) AcceptEstimate() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	r := CanAcceptEstimate(EstimateContext{Step: w.step, HasEstimate: w.result != nil})
	if r.Allowed {
		w.step = StepConfirm
	}
	return r
}

// --- Shared ---

// Back follows the current step's back edge. Returning from Estimate to
// Upload keeps the evidence and discards the estimate.
func (w *Wizard) Back() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	target, r := CanGoBack(w.step)
	if !r.Allowed {
		return r
	}
	if w.step == StepEstimate {
		w.result = nil
	}
	w.step = target
	return r
}

// SchedulePickup moves Confirm → Complete and freezes the confirmation.
func (w *Wizard) SchedulePickup() GuardResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return r
	}
	r := CanSchedulePickup(w.step)
	if !r.Allowed {
		return r
	}

	now := w.cfg.Now()
	c := &Confirmation{
		RequestID: GenerateRequestID(now),
		SessionID: w.sessionID,
		Intent:    w.intent,
		ItemID:    w.item.ID,
		ItemName:  w.item.Name,
		CreatedAt: now,
	}
	if w.intent == IntentFaulty {
		c.ProblemID = w.ev.ProblemID
		c.Resolution = w.ev.Resolution
		c.Amount = w.item.Price
	} else {
		res := *w.result
		c.Estimate = &res
		c.Amount = res.FinalCredit
	}
	w.confirmation = c
	w.step = StepComplete
	return r
}

// Close acknowledges a completed session and discards its state. It returns
// the confirmation so the caller can show or store it.
func (w *Wizard) Close() (Confirmation, GuardResult) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.open(); !ok {
		return Confirmation{}, r
	}
	r := CanClose(w.step)
	if !r.Allowed {
		return Confirmation{}, r
	}
	w.closed = true
	w.ev = Evidence{}
	w.result = nil
	return *w.confirmation, r
}
