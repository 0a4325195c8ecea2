package wizard

// ProblemOther is the catch-all category that requires a description.
const ProblemOther = "other"

// Problem is a selectable fault category.
type Problem struct {
	ID          string
	Label       string
	Description string
}

var problems = []Problem{
	{ID: "wrong-color", Label: "Wrong Color Sent", Description: "Received different color than ordered"},
	{ID: "wrong-size", Label: "Wrong Size", Description: "Size doesn't match the order"},
	{ID: "different-product", Label: "Different Product", Description: "Completely different item received"},
	{ID: "damaged", Label: "Product Already Damaged", Description: "Item arrived with defects or damage"},
	{ID: "not-working", Label: "Not Working Properly", Description: "Product has functional issues"},
	{ID: ProblemOther, Label: "Other Issue", Description: "Describe your specific problem"},
}

// Problems returns the fault categories in display order.
func Problems() []Problem {
	return append([]Problem(nil), problems...)
}

// LookupProblem returns the category with the given ID.
func LookupProblem(id string) (Problem, bool) {
	for _, p := range problems {
		if p.ID == id {
			return p, true
		}
	}
	return Problem{}, false
}

// ReturnGuidelines are the rules the user acknowledges before reporting a fault.
var ReturnGuidelines = []string{
	"Product seal should not be broken (if applicable)",
	"Original packaging and tags must be intact",
	"All accessories and manuals should be included",
	"Product should be in original condition (unless damaged on arrival)",
	"Return must be initiated within 14 days of delivery",
}
