package models

// Status is the document routing state.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusSentToBranch       Status = "sent_to_branch"
	StatusAcknowledged       Status = "acknowledged"
	StatusSentBackToDistrict Status = "sent_back_to_district"
)

// Valid reports whether s is one of the four defined states.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSentToBranch, StatusAcknowledged, StatusSentBackToDistrict:
		return true
	}
	return false
}

// Tier names the role grouping allowed to drive a transition. Mapping a tier
// onto concrete role capabilities happens in the workflow service, keeping
// the state table free of authorization imports.
type Tier int

const (
	// TierUploader: uploader, district_manager, admin.
	TierUploader Tier = iota
	// TierBranch: branch_user, branch_manager, district_manager, admin.
	TierBranch
)

// TransitionRule describes one edge of the status state machine.
type TransitionRule struct {
	Tier            Tier
	CommentRequired bool
	// RequiresVerifiedSlots gates the edge on every required supplementary
	// slot being verified correct. Only the two edges into
	// sent_back_to_district carry it.
	RequiresVerifiedSlots bool
}

// transitionRules is the full state table:
//
//	draft → sent_to_branch                      uploader-tier
//	sent_to_branch → acknowledged               branch-tier
//	sent_to_branch → sent_back_to_district      branch-tier, comment, gate
//	acknowledged → sent_back_to_district        branch-tier, comment, gate
//	sent_back_to_district → sent_to_branch      uploader-tier, comment (re-send loop)
//
// The direct sent_to_branch → sent_back_to_district shortcut is intentional
// behavior carried over from the office workflow; the verification gate
// still applies on it.
var transitionRules = map[Status]map[Status]TransitionRule{
	StatusDraft: {
		StatusSentToBranch: {Tier: TierUploader},
	},
	StatusSentToBranch: {
		StatusAcknowledged:       {Tier: TierBranch},
		StatusSentBackToDistrict: {Tier: TierBranch, CommentRequired: true, RequiresVerifiedSlots: true},
	},
	StatusAcknowledged: {
		StatusSentBackToDistrict: {Tier: TierBranch, CommentRequired: true, RequiresVerifiedSlots: true},
	},
	StatusSentBackToDistrict: {
		StatusSentToBranch: {Tier: TierUploader, CommentRequired: true},
	},
}

// RuleFor returns the rule for the (from, to) edge, or false when the edge
// is not in the table.
func RuleFor(from, to Status) (TransitionRule, bool) {
	rule, ok := transitionRules[from][to]
	return rule, ok
}

// CanTransitionTo reports whether the edge exists, ignoring role and comment
// requirements.
func (s Status) CanTransitionTo(to Status) bool {
	_, ok := RuleFor(s, to)
	return ok
}
