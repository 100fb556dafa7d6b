package harness

// UnitOutcome records how one flow step translated.
type UnitOutcome struct {
	Unit string `json:"unit"`
	Kind string `json:"kind"`
	Case string `json:"case"` // "ok" or "error"

	// Tree is the ir.Sprint dump of a translated unit.
	Tree string `json:"tree,omitempty"`

	// Error is the diagnostic kind, Diagnostic its rendered message with
	// file position, and Snippet the source text under its range.
	Error      string `json:"error,omitempty"`
	Diagnostic string `json:"diagnostic,omitempty"`
	Snippet    string `json:"snippet,omitempty"`

	// Seq is the step's logical position in the run, starting at 1.
	Seq int64 `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions hold.
	Pass bool `json:"pass"`

	// Trace holds one outcome per flow step, in flow order.
	Trace []UnitOutcome `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []UnitOutcome{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
