package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// RFQPDFRenderer lays out technical items as a request for quotation.
type RFQPDFRenderer struct{}

func (RFQPDFRenderer) Kind() RendererKind { return RendererTechnicalRFQ }

func (RFQPDFRenderer) Render(in RenderInput) (*Document, error) {
	if err := checkRenderable(string(RendererTechnicalRFQ), in); err != nil {
		return nil, err
	}
	data := BuildRFQDocData(in)

	content, err := GenerateRFQPDF(data)
	if err != nil {
		return nil, &RenderError{Renderer: string(RendererTechnicalRFQ), Reason: "generate pdf", Err: err}
	}
	return &Document{
		Content:     content,
		Filename:    RFQFilename(in.Proposal.DocumentNumber),
		ContentType: "application/pdf",
		Summary:     data.Summary,
	}, nil
}

// GenerateRFQPDF renders the RFQ document model to landscape PDF bytes.
func GenerateRFQPDF(data RFQDocData) ([]byte, error) {
	m := newDocumentMaroto(orientation.Horizontal)

	addRFQLetterhead(m, data)
	addRFQHeading(m, data)
	addRFQItemsTable(m, data)
	addSummaryBlock(m, data.Summary, 8)
	addRFQNotes(m, data)
	addSignatureBlock(m, data.Signatory)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate RFQ PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addRFQLetterhead prints the issuer identity, one fact per row.
func addRFQLetterhead(m core.Maroto, data RFQDocData) {
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(text.New(orNA(data.Issuer.Name), props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)

	small := props.Text{Size: 7, Align: align.Left, Color: mutedColor}
	lines := []string{
		data.Issuer.Address,
		joinNonEmpty([]string{fmtField("Phone", data.Issuer.Phone), fmtField("Email", data.Issuer.Email)}, " | "),
		joinNonEmpty([]string{fmtField("Bank account", data.Issuer.BankAccount), fmtField("Routing code", data.Issuer.RoutingCode)}, " | "),
		joinNonEmpty([]string{fmtField("Tax ID", data.Issuer.TaxID), fmtField("Classification", data.Issuer.ClassificationCode)}, " | "),
	}
	for _, l := range lines {
		if l == "" {
			continue
		}
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(l, small))))
	}

	m.AddRows(row.New(3))
}

// addRFQHeading adds the reference number, centered title and the
// date/recipient line.
func addRFQHeading(m core.Maroto, data RFQDocData) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Ref: %s", data.DocumentNumber), props.Text{
				Size:  9,
				Style: fontstyle.Bold,
				Align: align.Right,
			})),
		),
		row.New(10).Add(
			col.New(12).Add(text.New(fmt.Sprintf("REQUEST FOR QUOTATION - %s", data.Title), props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Align: align.Center,
				Color: darkColor,
				Top:   2,
			})),
		),
		row.New(7).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Date: %s", data.Date), props.Text{Size: 8, Align: align.Left})),
			col.New(6).Add(text.New(fmt.Sprintf("To: %s", data.Recipient), props.Text{Size: 8, Align: align.Right})),
		),
	)
	m.AddRows(row.New(3))
}

// addRFQItemsTable adds the wide technical item table.
func addRFQItemsTable(m core.Maroto, data RFQDocData) {
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: whiteColor,
	}
	headerCell := &props.Cell{BackgroundColor: darkColor}

	specWidth := 3
	if data.ShowImages {
		specWidth = 2
	}

	header := []core.Col{
		col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Description", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Technical Details", headerText)).WithStyle(headerCell),
		col.New(1).Add(text.New("Unit", headerText)).WithStyle(headerCell),
		col.New(1).Add(text.New("Qty", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Will Be Supplied", headerText)).WithStyle(headerCell),
		col.New(specWidth).Add(text.New("Specifications", headerText)).WithStyle(headerCell),
	}
	if data.ShowImages {
		header = append(header, col.New(1).Add(text.New("Image", headerText)).WithStyle(headerCell))
	}
	m.AddRows(row.New(8).Add(header...))

	bodyText := props.Text{Size: 7, Align: align.Center}
	bodyTextLeft := props.Text{Size: 7, Align: align.Left}
	boldLeft := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left}

	for i, line := range data.Lines {
		height := float64(8)
		if n := max(len(line.Specifications), strings.Count(line.TechnicalText(), "\n")+1); n > 2 {
			height = float64(4 * n)
		}

		cols := []core.Col{
			col.New(1).Add(text.New(line.Index, bodyText)),
			col.New(2).Add(text.New(line.Description, boldLeft)),
			col.New(2).Add(text.New(line.TechnicalText(), bodyTextLeft)),
			col.New(1).Add(text.New(line.Unit, bodyText)),
			col.New(1).Add(text.New(line.Qty, bodyText)),
			col.New(2).Add(text.New(line.WillBeSupplied, bodyTextLeft)),
			col.New(specWidth).Add(text.New(numberedList(line.Specifications), bodyTextLeft)),
		}
		if data.ShowImages {
			cols = append(cols, col.New(1).Add(text.New(imagePlaceholder(line.ImageURL), bodyText)))
		}

		if i%2 == 1 {
			stripe := &props.Cell{BackgroundColor: stripeColor}
			for j := range cols {
				cols[j] = cols[j].WithStyle(stripe)
			}
		}
		m.AddRows(row.New(height).Add(cols...))
	}

	m.AddRows(row.New(2))
}

// addRFQNotes adds the fixed three-line notes block.
func addRFQNotes(m core.Maroto, data RFQDocData) {
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New("NOTES", props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: mutedColor,
			})),
		),
	)
	for _, n := range data.Notes {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New(n, props.Text{Size: 8, Align: align.Left}))))
	}
	m.AddRows(row.New(3))
}

// numberedList renders specs as "1. a\n2. b".
func numberedList(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	return strings.Join(lines, "\n")
}
