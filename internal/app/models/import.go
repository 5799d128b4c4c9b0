package models

// ResolutionAction is the operator's decision for an imported row whose GRN already exists.
type ResolutionAction string

const (
	ActionReplace ResolutionAction = "replace"
	ActionKeep    ResolutionAction = "keep"
	ActionSkip    ResolutionAction = "skip"
)

// Normalize maps empty or unknown actions to keep. Replace is never guessed.
func (a ResolutionAction) Normalize() ResolutionAction {
	switch a {
	case ActionReplace, ActionSkip:
		return a
	default:
		return ActionKeep
	}
}

// Duplicate is an imported row colliding with a stored record.
type Duplicate struct {
	GRN      string           `json:"grn"`
	Row      int              `json:"row"`
	Incoming StudentRecord    `json:"incoming"`
	Existing StudentRecord    `json:"existing"`
	Action   ResolutionAction `json:"action,omitempty"`
}

// ImportStatus tells the caller whether the batch needs a resolution pass.
type ImportStatus string

const (
	ImportCompleted         ImportStatus = "completed"
	ImportDuplicatesPending ImportStatus = "duplicates_pending"
)

// RejectedRow is a non-blank row that cannot be reconciled.
type RejectedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult summarizes the first import pass.
type ImportResult struct {
	BatchID       string        `json:"batchId"`
	Status        ImportStatus  `json:"status"`
	ImportedCount int           `json:"importedCount"`
	Duplicates    []Duplicate   `json:"duplicates"`
	Rejected      []RejectedRow `json:"rejected,omitempty"`
}

// ResolutionResult summarizes a resolution pass.
type ResolutionResult struct {
	ImportedCount int      `json:"importedCount"`
	SkippedCount  int      `json:"skippedCount"`
	Frozen        []string `json:"frozen,omitempty"`
}
