package wizard

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
	Step    Step   // Step the guard was evaluated on
	Field   Field  // Input that must change for the guard to pass
}

// Error returns the guard result as a *MissingFieldError if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &MissingFieldError{Step: r.Step, Field: r.Field, Reason: r.Reason}
}

func allow(step Step) GuardResult {
	return GuardResult{Allowed: true, Step: step}
}

func refuse(step Step, field Field, reason string) GuardResult {
	return GuardResult{Allowed: false, Reason: reason, Step: step, Field: field}
}

func requireStep(current, want Step, action string) (GuardResult, bool) {
	if current != want {
		return refuse(current, FieldStep, fmt.Sprintf("cannot %s from step %s", action, current)), false
	}
	return GuardResult{}, true
}

// InstructionsContext provides context for leaving the Instructions step.
type InstructionsContext struct {
	Step     Step
	Accepted bool
}

// CanContinueToProblem evaluates Instructions → Problem.
// Rule: the user must have acknowledged the return instructions.
func CanContinueToProblem(ctx InstructionsContext) GuardResult {
	if r, ok := requireStep(ctx.Step, StepInstructions, "continue to problem"); !ok {
		return r
	}
	if !ctx.Accepted {
		return refuse(ctx.Step, FieldInstructions, "please confirm you have read the return instructions")
	}
	return allow(ctx.Step)
}

// ProblemContext provides context for leaving the Problem step.
type ProblemContext struct {
	Step        Step
	ProblemID   string
	Description string
}

// CanContinueToSolution evaluates Problem → Solution.
// Rules:
// - A known problem category must be selected
// - The "other" category also requires a description
func CanContinueToSolution(ctx ProblemContext) GuardResult {
	if r, ok := requireStep(ctx.Step, StepProblem, "continue to solution"); !ok {
		return r
	}
	if ctx.ProblemID == "" {
		return refuse(ctx.Step, FieldProblem, "please select a problem")
	}
	if _, ok := LookupProblem(ctx.ProblemID); !ok {
		return refuse(ctx.Step, FieldProblem, fmt.Sprintf("unknown problem %q", ctx.ProblemID))
	}
	if ctx.ProblemID == ProblemOther && strings.TrimSpace(ctx.Description) == "" {
		return refuse(ctx.Step, FieldDescription, "please describe the problem")
	}
	return allow(ctx.Step)
}

// SolutionContext provides context for leaving the Solution step.
type SolutionContext struct {
	Step       Step
	Resolution Resolution
}

// CanContinueToConfirm evaluates Solution → Confirm.
// Rule: exchange or refund must be selected.
func CanContinueToConfirm(ctx SolutionContext) GuardResult {
	if r, ok := requireStep(ctx.Step, StepSolution, "continue to confirm"); !ok {
		return r
	}
	if !ctx.Resolution.Valid() {
		return refuse(ctx.Step, FieldResolution, "please choose exchange or refund")
	}
	return allow(ctx.Step)
}

// UploadContext provides context for requesting an estimate.
type UploadContext struct {
	Step          Step
	HasPhoto      bool
	PhotoAccepted bool
	Condition     string
	PhotoError    string
	ReceiptError  string
}

// CanRequestEstimate evaluates Upload → Estimate.
// Rules:
// - Not already processing (the step must be upload)
// - A photo must be present and must have passed inspection
// - Condition text must not be empty
// - No unresolved photo or receipt error
func CanRequestEstimate(ctx UploadContext) GuardResult {
	if IsProcessing(ctx.Step) {
		return refuse(ctx.Step, FieldStep, "a request is already in progress")
	}
	if r, ok := requireStep(ctx.Step, StepUpload, "request an estimate"); !ok {
		return r
	}
	if !ctx.HasPhoto {
		return refuse(ctx.Step, FieldPhoto, "please upload a product photo")
	}
	if ctx.PhotoError != "" {
		return refuse(ctx.Step, FieldPhoto, ctx.PhotoError)
	}
	if !ctx.PhotoAccepted {
		return refuse(ctx.Step, FieldPhoto, "photo has not passed inspection")
	}
	if strings.TrimSpace(ctx.Condition) == "" {
		return refuse(ctx.Step, FieldCondition, "please describe the item condition")
	}
	if ctx.ReceiptError != "" {
		return refuse(ctx.Step, FieldReceipt, ctx.ReceiptError)
	}
	return allow(ctx.Step)
}

// EstimateContext provides context for accepting an estimate.
type EstimateContext struct {
	Step        Step
	HasEstimate bool
}

// CanAcceptEstimate evaluates Estimate → Confirm.
// Rule: an estimate must have been computed. Acceptance is otherwise unconditional.
func CanAcceptEstimate(ctx EstimateContext) GuardResult {
	if r, ok := requireStep(ctx.Step, StepEstimate, "accept the estimate"); !ok {
		return r
	}
	if !ctx.HasEstimate {
		return refuse(ctx.Step, FieldNone, "no estimate has been computed")
	}
	return allow(ctx.Step)
}

// CanSchedulePickup evaluates Confirm → Complete. Always legal from Confirm.
func CanSchedulePickup(step Step) GuardResult {
	if r, ok := requireStep(step, StepConfirm, "schedule pickup"); !ok {
		return r
	}
	return allow(step)
}

// CanClose evaluates the external acknowledge/close action.
// Rule: only a completed wizard can be closed.
func CanClose(step Step) GuardResult {
	if r, ok := requireStep(step, StepComplete, "close"); !ok {
		return r
	}
	return allow(step)
}

// backEdges lists the within-track back transitions.
var backEdges = map[Step]Step{
	StepProblem:  StepInstructions,
	StepSolution: StepProblem,
	StepEstimate: StepUpload,
}

// CanGoBack evaluates a back transition and returns its target.
// Rule: only Problem, Solution and Estimate have a back edge; back never
// leaves the current track.
func CanGoBack(step Step) (Step, GuardResult) {
	target, ok := backEdges[step]
	if !ok {
		return step, refuse(step, FieldStep, fmt.Sprintf("cannot go back from step %s", step))
	}
	return target, allow(step)
}

// CanEditEvidence evaluates edits to photo, condition, receipt or cart.
// Rule: recycle evidence is editable only on the Upload step.
func CanEditEvidence(step Step, field Field) GuardResult {
	if step != StepUpload {
		return refuse(step, field, fmt.Sprintf("cannot edit %s on step %s", field, step))
	}
	return allow(step)
}

// CanUploadPhoto evaluates a photo upload.
// Rule: allowed on Upload, and while a prior upload is in flight (the new
// upload replaces it).
func CanUploadPhoto(step Step) GuardResult {
	if step != StepUpload && step != StepUploading {
		return refuse(step, FieldPhoto, fmt.Sprintf("cannot upload a photo on step %s", step))
	}
	return allow(step)
}

// CanAddCartItem evaluates adding an add-on item to the cart.
// Rule: allowed on Upload and Estimate.
func CanAddCartItem(step Step) GuardResult {
	if step != StepUpload && step != StepEstimate {
		return refuse(step, FieldCart, fmt.Sprintf("cannot add items on step %s", step))
	}
	return allow(step)
}
