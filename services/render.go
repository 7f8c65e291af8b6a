package services

import (
	"regexp"
	"strings"
)

// DefaultCurrencySymbol is used when RenderInput.Currency is empty.
const DefaultCurrencySymbol = "$"

// RenderInput is everything a renderer consumes. Totals must come from the
// pricing calculator; renderers never derive them.
type RenderInput struct {
	Proposal *Proposal
	Totals   Totals
	Currency string
	Profiles CompanyProfiles
}

func (in RenderInput) currency() string {
	if in.Currency == "" {
		return DefaultCurrencySymbol
	}
	return in.Currency
}

// Document is a rendered file ready to hand to a download.
type Document struct {
	Content     []byte
	Filename    string
	ContentType string
	// Summary is the totals block exactly as printed.
	Summary []SummaryLine
}

// Renderer turns a proposal and its totals into a document.
type Renderer interface {
	Kind() RendererKind
	Render(in RenderInput) (*Document, error)
}

// RendererFor dispatches on the template's case table entry. Every valid
// template type maps to exactly one renderer.
func RendererFor(t TemplateType) (Renderer, error) {
	traits, ok := t.Traits()
	if !ok {
		return nil, &RenderError{Renderer: "dispatch", Reason: string(t), Err: ErrUnknownTemplate}
	}
	switch traits.Renderer {
	case RendererTechnicalRFQ:
		return RFQPDFRenderer{}, nil
	default:
		return CommercialPDFRenderer{}, nil
	}
}

// checkRenderable rejects input that no renderer can lay out.
func checkRenderable(name string, in RenderInput) error {
	if in.Proposal == nil {
		return &RenderError{Renderer: name, Reason: "no proposal"}
	}
	if !in.Proposal.TemplateType.Valid() {
		return &RenderError{Renderer: name, Reason: string(in.Proposal.TemplateType), Err: ErrUnknownTemplate}
	}
	if in.Proposal.ActiveItemCount() == 0 {
		return &RenderError{Renderer: name, Reason: "proposal has no line items"}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with "_".
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}

// CommercialFilename returns "<proposalNumber>-proposal.pdf".
func CommercialFilename(proposalNumber string) string {
	return SanitizeFilename(proposalNumber) + "-proposal.pdf"
}

// RFQFilename returns "RFQ-<documentNumber>.pdf".
func RFQFilename(documentNumber string) string {
	return "RFQ-" + SanitizeFilename(documentNumber) + ".pdf"
}
