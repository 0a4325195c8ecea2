package wizard

import "fmt"

// Field identifies the input a guard failure or validation error belongs to.
type Field string

const (
	FieldNone         Field = ""
	FieldStep         Field = "step"
	FieldInstructions Field = "instructions"
	FieldProblem      Field = "problem"
	FieldDescription  Field = "description"
	FieldResolution   Field = "resolution"
	FieldPhoto        Field = "photo"
	FieldCondition    Field = "condition"
	FieldReceipt      Field = "receipt"
	FieldCart         Field = "cart"
)

// MissingFieldError is a refused transition. It is recoverable: the wizard
// stays on Step and the user corrects Field.
type MissingFieldError struct {
	Step   Step
	Field  Field
	Reason string
}

func (e *MissingFieldError) Error() string {
	if e.Field == FieldNone {
		return fmt.Sprintf("%s: %s", e.Step, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Step, e.Field, e.Reason)
}
