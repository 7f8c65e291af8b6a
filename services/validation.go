package services

import (
	"fmt"
	"regexp"
	"strings"
)

// Action is a user operation gated by ValidateProposal.
type Action string

const (
	ActionSave     Action = "save"
	ActionSend     Action = "send"
	ActionGenerate Action = "generate"
)

// ParseAction maps a query value to an Action. Empty means save.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return ActionSave, nil
	case ActionSave, ActionSend, ActionGenerate:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email has a local@domain.tld shape. Unlike
// the optional fields of a record, an empty email is invalid here.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailPattern.MatchString(email)
}

// ValidateProposal returns the blocking errors for performing action on p, in
// rule order. An empty result means the action is permitted. Callers usually
// surface only the first entry.
func ValidateProposal(p *Proposal, action Action) []string {
	var errs []string

	if strings.TrimSpace(p.ClientID) == "" {
		errs = append(errs, "Please select a client")
	}
	if strings.TrimSpace(p.ProposalTitle) == "" {
		errs = append(errs, "Proposal title is required")
	}

	traits, ok := p.TemplateType.Traits()
	if !ok {
		errs = append(errs, fmt.Sprintf("Unknown template type %q", p.TemplateType))
	}
	if traits.UsesProducts {
		errs = append(errs, validateCommercialItems(p.Products)...)
	}
	if traits.UsesTechnicalItems {
		errs = append(errs, validateTechnicalProposal(p)...)
	}

	if action == ActionSend {
		if strings.TrimSpace(p.ClientEmail) == "" {
			errs = append(errs, "Client email is required to send a proposal")
		} else if !ValidateEmail(p.ClientEmail) {
			errs = append(errs, "Client email is not a valid email address")
		}
	}

	if !p.ValidUntil.IsZero() && !p.ProposalDate.IsZero() && p.ValidUntil.Before(p.ProposalDate.Time) {
		errs = append(errs, "Valid until date must be on or after the proposal date")
	}

	if p.TaxRate < 0 || p.TaxRate > 100 {
		errs = append(errs, "Tax rate must be between 0 and 100")
	}
	if p.Discount < 0 || p.Discount > 100 {
		errs = append(errs, "Discount must be between 0 and 100")
	}

	return errs
}

func validateCommercialItems(items []CommercialItem) []string {
	if len(items) == 0 {
		return []string{"Add at least one product"}
	}
	var errs []string
	for i, item := range items {
		label := itemLabel("Product", i, item.Name)
		if item.Quantity <= 0 {
			errs = append(errs, label+": quantity must be greater than 0")
		}
		if item.UnitPrice < 0 {
			errs = append(errs, label+": unit price cannot be negative")
		}
		if item.Discount < 0 || item.Discount > 100 {
			errs = append(errs, label+": discount must be between 0 and 100")
		}
	}
	return errs
}

func validateTechnicalProposal(p *Proposal) []string {
	var errs []string
	if len(p.RFQItems) == 0 {
		errs = append(errs, "Add at least one RFQ item")
	}
	if strings.TrimSpace(p.DocumentNumber) == "" {
		errs = append(errs, "Document number is required")
	}
	if strings.TrimSpace(p.CompanyDetails.Name) == "" {
		errs = append(errs, "Company details are required")
	}
	for i, item := range p.RFQItems {
		label := itemLabel("Item", i, "")
		if strings.TrimSpace(item.Description) == "" {
			errs = append(errs, label+": description is required")
		}
		if item.Quantity <= 0 {
			errs = append(errs, label+": quantity must be greater than 0")
		}
		if item.UnitPrice < 0 {
			errs = append(errs, label+": unit price cannot be negative")
		}
	}
	return errs
}

func itemLabel(kind string, idx int, name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return fmt.Sprintf("%s %d (%s)", kind, idx+1, name)
	}
	return fmt.Sprintf("%s %d", kind, idx+1)
}
