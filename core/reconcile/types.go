package reconcile

import (
	"offer-reconciler/core/models"
)

// MatchReason names the strategy that matched a casino.
type MatchReason string

const (
	// ReasonExact means the folded names are equal.
	ReasonExact MatchReason = "exact"
	// ReasonContains means one normalized name contains the other.
	ReasonContains MatchReason = "contains"
	// ReasonFuzzy means the bigram similarity reached the fuzzy threshold.
	ReasonFuzzy MatchReason = "fuzzy"
	// ReasonNoMatch means no existing casino matched.
	ReasonNoMatch MatchReason = "no_match"
)

// CasinoMatch is the outcome of duplicate detection for one candidate.
type CasinoMatch struct {
	// Match is the existing casino that was matched, nil when Reason is ReasonNoMatch.
	Match *models.Casino `json:"match"`

	// Reason is the strategy that produced the match.
	Reason MatchReason `json:"reason"`

	// Score is the similarity, only set for fuzzy matches.
	Score *float64 `json:"score,omitempty"`
}

// ActionType is the decision taken for one offer during a merge.
type ActionType string

const (
	// ActionCreate inserts a new offer.
	ActionCreate ActionType = "create"
	// ActionUpdate overwrites an existing offer with significant changes.
	ActionUpdate ActionType = "update"
	// ActionSkip leaves a matching offer untouched.
	ActionSkip ActionType = "skip"
	// ActionDeprecate soft-removes an offer absent from the incoming set.
	ActionDeprecate ActionType = "deprecate"
)

// MergeAction is one planned write (or non-write) of a merge.
type MergeAction struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// OfferID is the existing offer, empty for creates.
	OfferID string `json:"offer_id,omitempty"`

	// OfferName is the name the offer will carry after the action.
	OfferName string `json:"offer_name"`

	// Reason explains the decision.
	Reason string `json:"reason"`

	// Fields holds the incoming values for create and update actions.
	Fields *models.OfferFields `json:"-"`
}

// MergeSummary counts merge decisions.
type MergeSummary struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Skipped    int `json:"skipped"`
	Deprecated int `json:"deprecated"`
}

// MergePlan is the set of actions computed for one casino and source.
type MergePlan struct {
	CasinoID string        `json:"casino_id"`
	Source   string        `json:"source"`
	Actions  []MergeAction `json:"actions"`
	Summary  MergeSummary  `json:"summary"`
}

// Phase is a state of the research batch state machine.
type Phase string

const (
	PhaseSelecting     Phase = "selecting"
	PhaseResearching   Phase = "researching"
	PhaseMerging       Phase = "merging"
	PhaseCheckpointing Phase = "checkpointing"
	PhaseDone          Phase = "done"
	PhaseFailed        Phase = "failed"
)

// Trigger records who started a research batch.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerCron   Trigger = "cron"
)

// ItemError is a per-item failure that did not abort its batch.
type ItemError struct {
	CasinoID   string `json:"casino_id,omitempty"`
	CasinoName string `json:"casino_name"`
	Error      string `json:"error"`
}

// BatchResult is the outcome of one research batch.
type BatchResult struct {
	Success            bool        `json:"success"`
	Error              string      `json:"error,omitempty"`
	Phase              Phase       `json:"phase"`
	Processed          int         `json:"processed"`
	Created            int         `json:"created"`
	Updated            int         `json:"updated"`
	Skipped            int         `json:"skipped"`
	Deprecated         int         `json:"deprecated"`
	Errors             []ItemError `json:"errors"`
	ProcessedCasinoIDs []string    `json:"processed_casino_ids"`
	DurationMs         int64       `json:"duration_ms"`
	Usage              *Usage      `json:"usage,omitempty"`
}

// ResearchRecord is what the audit collaborator receives per research batch.
type ResearchRecord struct {
	RunID       string      `json:"run_id"`
	TriggeredBy Trigger     `json:"triggered_by"`
	BatchSize   int         `json:"batch_size"`
	Success     bool        `json:"success"`
	Error       string      `json:"error,omitempty"`
	Processed   int         `json:"processed"`
	Created     int         `json:"created"`
	Updated     int         `json:"updated"`
	Skipped     int         `json:"skipped"`
	Errors      []ItemError `json:"errors"`
	DurationMs  int64       `json:"duration_ms"`
	Usage       *Usage      `json:"usage,omitempty"`
}

// DiscoveredCasino is a casino reported by discovery research.
type DiscoveredCasino struct {
	Name          string `json:"name" validate:"required,max=255"`
	Website       string `json:"website,omitempty" validate:"max=512"`
	LicenseStatus string `json:"license_status,omitempty" validate:"max=64"`
	SourceURL     string `json:"source_url,omitempty" validate:"max=512"`
}

// DuplicateEntry records a discovered casino that matched an existing one.
type DuplicateEntry struct {
	Discovered DiscoveredCasino `json:"discovered"`
	Existing   models.Casino    `json:"existing"`
	Reason     MatchReason      `json:"reason"`
	Score      *float64         `json:"score,omitempty"`
}

// DiscoveryResult is the outcome of reconciling a discovery batch.
type DiscoveryResult struct {
	Success      bool             `json:"success"`
	Error        string           `json:"error,omitempty"`
	SavedCount   int              `json:"saved_count"`
	SkippedCount int              `json:"skipped_count"`
	Saved        []models.Casino  `json:"saved"`
	Duplicates   []DuplicateEntry `json:"duplicates"`
	Errors       []ItemError      `json:"errors"`
	DurationMs   int64            `json:"duration_ms"`
}

// DiscoveryRecord is what the audit collaborator receives per discovery run.
type DiscoveryRecord struct {
	RunID      string           `json:"run_id"`
	State      string           `json:"state"`
	Saved      int              `json:"saved"`
	Skipped    int              `json:"skipped"`
	Duplicates []DuplicateEntry `json:"duplicates"`
	DurationMs int64            `json:"duration_ms"`
	Success    bool             `json:"success"`
	Error      string           `json:"error,omitempty"`
}
