package services

import "fmt"

// standardTransitions lists the moves the editor performs on its own. Anything
// else needs an administrative override.
var standardTransitions = map[Status][]Status{
	StatusDraft: {StatusDraft, StatusSent},
	StatusSent:  {StatusAccepted, StatusExpired},
}

// IsStandardTransition reports whether from → to is a regular lifecycle move.
func IsStandardTransition(from, to Status) bool {
	for _, s := range standardTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ChangeStatus moves p to status to. draft → sent requires send validation to
// pass. With override set any valid status is written without a guard.
func ChangeStatus(p *Proposal, to Status, override bool) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	from := p.Status
	if from == "" {
		from = StatusDraft
	}

	if override {
		p.Status = to
		return nil
	}

	if !IsStandardTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	if from == StatusDraft && to == StatusSent {
		if errs := ValidateProposal(p, ActionSend); len(errs) > 0 {
			return &TransitionError{From: from, To: to, Errors: errs}
		}
	}

	p.Status = to
	return nil
}
