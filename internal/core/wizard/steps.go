// Package wizard contains the return/recycle intake state machine.
// Guards and planners are pure functions; the Wizard type is the single
// writer of a session's state.
package wizard

// Intent is the reason the item is being sent back. It is fixed for the
// lifetime of a wizard.
type Intent string

const (
	IntentFaulty  Intent = "faulty"
	IntentRecycle Intent = "recycle"
)

// Valid reports whether the intent is known.
func (i Intent) Valid() bool {
	return i == IntentFaulty || i == IntentRecycle
}

// Step is the active screen of the wizard. Faulty and Recycle sessions use
// disjoint steps and share Confirm and Complete.
type Step string

const (
	// Faulty track
	StepInstructions Step = "instructions"
	StepProblem      Step = "problem"
	StepSolution     Step = "solution"

	// Recycle track
	StepUpload     Step = "upload"
	StepUploading  Step = "uploading"  // photo inspection in flight
	StepEstimating Step = "estimating" // estimate generation in flight
	StepEstimate   Step = "estimate"

	// Shared
	StepConfirm  Step = "confirm"
	StepComplete Step = "complete"
)

// Resolution is the outcome requested for a faulty item.
type Resolution string

const (
	ResolutionExchange Resolution = "exchange"
	ResolutionRefund   Resolution = "refund"
)

// Valid reports whether the resolution is known.
func (r Resolution) Valid() bool {
	return r == ResolutionExchange || r == ResolutionRefund
}

// Label returns the display label.
func (r Resolution) Label() string {
	switch r {
	case ResolutionExchange:
		return "Exchange"
	case ResolutionRefund:
		return "Refund"
	}
	return ""
}

var tracks = map[Intent][]Step{
	IntentFaulty:  {StepInstructions, StepProblem, StepSolution, StepConfirm, StepComplete},
	IntentRecycle: {StepUpload, StepEstimate, StepConfirm, StepComplete},
}

var stepLabels = map[Step]string{
	StepInstructions: "Instructions",
	StepProblem:      "Problem",
	StepSolution:     "Solution",
	StepUpload:       "Upload Details",
	StepEstimate:     "Estimate",
	StepConfirm:      "Confirm",
	StepComplete:     "Complete",
}

// Label returns the step indicator label. Processing states use their
// parent step's label.
func (s Step) Label() string {
	return stepLabels[VisibleStep(s)]
}

// Track returns the visible steps for an intent, in order.
func Track(intent Intent) []Step {
	return append([]Step(nil), tracks[intent]...)
}

// TrackLabels returns the display labels matching Track.
func TrackLabels(intent Intent) []string {
	track := Track(intent)
	labels := make([]string, len(track))
	for i, s := range track {
		labels[i] = s.Label()
	}
	return labels
}

// InitialStep returns the entry step for an intent.
func InitialStep(intent Intent) Step {
	if intent == IntentFaulty {
		return StepInstructions
	}
	return StepUpload
}

// VisibleStep maps processing states to the step they are shown under.
func VisibleStep(s Step) Step {
	switch s {
	case StepUploading:
		return StepUpload
	case StepEstimating:
		return StepEstimate
	}
	return s
}

// IsProcessing reports whether the step is an in-flight state.
func IsProcessing(s Step) bool {
	return s == StepUploading || s == StepEstimating
}

// Progress returns the zero-based index of the step within the intent's
// track and the track length. Index is -1 if the step is not on the track.
func Progress(intent Intent, s Step) (index, total int) {
	track := tracks[intent]
	visible := VisibleStep(s)
	for i, step := range track {
		if step == visible {
			return i, len(track)
		}
	}
	return -1, len(track)
}
