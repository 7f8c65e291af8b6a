package services

import (
	"fmt"
	"strings"
)

// TemplateType selects the line-item variant, the validation rules and the
// renderer that apply to a proposal.
type TemplateType string

const (
	TemplateSimpleCommercial     TemplateType = "simple-commercial"
	TemplateTechnicalRFQ         TemplateType = "technical-rfq"
	TemplateCommercialWithImages TemplateType = "commercial-with-images"
	TemplateTechnicalWithImages  TemplateType = "technical-with-images"
)

// ItemCollection names the proposal collection a template works on.
type ItemCollection string

const (
	CollectionProducts ItemCollection = "products"
	CollectionRFQItems ItemCollection = "rfq_items"
)

// RendererKind identifies one of the downloadable document layouts.
type RendererKind string

const (
	RendererCommercial   RendererKind = "commercial"
	RendererTechnicalRFQ RendererKind = "technical-rfq"
)

// TemplateTraits is the case table entry for one template type.
type TemplateTraits struct {
	Label              string
	ActiveCollection   ItemCollection
	UsesProducts       bool
	UsesTechnicalItems bool
	UsesImages         bool
	Renderer           RendererKind
}

var templateTraits = map[TemplateType]TemplateTraits{
	TemplateSimpleCommercial: {
		Label:            "Simple Commercial",
		ActiveCollection: CollectionProducts,
		UsesProducts:     true,
		Renderer:         RendererCommercial,
	},
	TemplateCommercialWithImages: {
		Label:            "Commercial with Images",
		ActiveCollection: CollectionProducts,
		UsesProducts:     true,
		UsesImages:       true,
		Renderer:         RendererCommercial,
	},
	TemplateTechnicalRFQ: {
		Label:              "Technical RFQ",
		ActiveCollection:   CollectionRFQItems,
		UsesTechnicalItems: true,
		Renderer:           RendererTechnicalRFQ,
	},
	TemplateTechnicalWithImages: {
		Label:              "Technical with Images",
		ActiveCollection:   CollectionRFQItems,
		UsesTechnicalItems: true,
		UsesImages:         true,
		Renderer:           RendererTechnicalRFQ,
	},
}

// AllTemplateTypes returns every supported template type in display order.
func AllTemplateTypes() []TemplateType {
	return []TemplateType{
		TemplateSimpleCommercial,
		TemplateCommercialWithImages,
		TemplateTechnicalRFQ,
		TemplateTechnicalWithImages,
	}
}

// ParseTemplateType accepts the canonical template names, case-insensitively.
func ParseTemplateType(s string) (TemplateType, error) {
	t := TemplateType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := templateTraits[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, s)
	}
	return t, nil
}

// Traits returns the case table entry for t.
func (t TemplateType) Traits() (TemplateTraits, bool) {
	traits, ok := templateTraits[t]
	return traits, ok
}

func (t TemplateType) Valid() bool {
	_, ok := templateTraits[t]
	return ok
}

func UsesProducts(t TemplateType) bool       { return templateTraits[t].UsesProducts }
func UsesTechnicalItems(t TemplateType) bool { return templateTraits[t].UsesTechnicalItems }
func UsesImages(t TemplateType) bool         { return templateTraits[t].UsesImages }
