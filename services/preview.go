package services

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"
)

// PreviewRenderer produces the HTML variant of whichever document the
// template dispatches to. It consumes the same document models as the PDF
// renderers so summary figures are identical.
type PreviewRenderer struct {
	// Printable wraps the fragment in a standalone page that opens the print
	// dialog on load.
	Printable bool
}

func (r PreviewRenderer) Render(in RenderInput) (*Document, error) {
	if err := checkRenderable("preview", in); err != nil {
		return nil, err
	}

	component, summary := PreviewComponent(in)
	if r.Printable {
		component = PrintablePage(in.Proposal.ProposalTitle, component)
	}

	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return nil, &RenderError{Renderer: "preview", Reason: "render html", Err: err}
	}
	return &Document{
		Content:     buf.Bytes(),
		Filename:    strings.TrimSuffix(previewFilename(in.Proposal), ".pdf") + ".html",
		ContentType: "text/html; charset=utf-8",
		Summary:     summary,
	}, nil
}

func previewFilename(p *Proposal) string {
	if traits, _ := p.TemplateType.Traits(); traits.Renderer == RendererTechnicalRFQ {
		return RFQFilename(p.DocumentNumber)
	}
	return CommercialFilename(p.ProposalNumber)
}

// PreviewComponent returns the HTML fragment for in together with the summary
// lines it prints. The caller must have checked that in is renderable.
func PreviewComponent(in RenderInput) (templ.Component, []SummaryLine) {
	if traits, _ := in.Proposal.TemplateType.Traits(); traits.Renderer == RendererTechnicalRFQ {
		data := BuildRFQDocData(in)
		return rfqPreview(data), data.Summary
	}
	data := BuildCommercialDocData(in)
	return commercialPreview(data), data.Summary
}

// letterheadLines lists the issuer contact lines printed under the RFQ
// letterhead, skipping the ones with no value.
func letterheadLines(c CompanyDetails) []string {
	var lines []string
	for _, l := range []string{
		c.Address,
		fmtField("Phone", c.Phone),
		fmtField("Email", c.Email),
		fmtField("Bank account", c.BankAccount),
		fmtField("Routing code", c.RoutingCode),
		fmtField("Tax ID", c.TaxID),
		fmtField("Classification", c.ClassificationCode),
	} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
