package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	mutedColor  = &props.Color{Red: 100, Green: 100, Blue: 100}
	darkColor   = &props.Color{Red: 33, Green: 37, Blue: 41}
	whiteColor  = &props.Color{Red: 255, Green: 255, Blue: 255}
	stripeColor = &props.Color{Red: 248, Green: 249, Blue: 250}
	bandColor   = &props.Color{Red: 245, Green: 243, Blue: 239}
)

// CommercialPDFRenderer lays out products, discount and tax as a paginated
// commercial offer.
type CommercialPDFRenderer struct{}

func (CommercialPDFRenderer) Kind() RendererKind { return RendererCommercial }

func (CommercialPDFRenderer) Render(in RenderInput) (*Document, error) {
	if err := checkRenderable(string(RendererCommercial), in); err != nil {
		return nil, err
	}
	data := BuildCommercialDocData(in)

	content, err := GenerateCommercialPDF(data)
	if err != nil {
		return nil, &RenderError{Renderer: string(RendererCommercial), Reason: "generate pdf", Err: err}
	}
	return &Document{
		Content:     content,
		Filename:    CommercialFilename(in.Proposal.ProposalNumber),
		ContentType: "application/pdf",
		Summary:     data.Summary,
	}, nil
}

func newDocumentMaroto(o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(o).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()
	return maroto.New(cfg)
}

// GenerateCommercialPDF renders the commercial document model to PDF bytes.
func GenerateCommercialPDF(data CommercialDocData) ([]byte, error) {
	m := newDocumentMaroto(orientation.Vertical)

	addCommercialTitle(m, data)
	addCommercialParties(m, data)
	addCommercialItemsTable(m, data)
	addSummaryBlock(m, data.Summary, 8)
	addTextSection(m, "NOTES", data.Notes)
	addTextSection(m, "TERMS & CONDITIONS", data.Terms)
	if data.Signatory.Name != "" || data.Signatory.Title != "" {
		addSignatureBlock(m, data.Signatory)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate proposal PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addCommercialTitle adds issuer name, "PROPOSAL" title, number and dates.
func addCommercialTitle(m core.Maroto, data CommercialDocData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(orNA(data.Issuer.Name), props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New("PROPOSAL", props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: darkColor,
				}),
			),
		),
	)

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(
				text.New(joinNonEmpty([]string{data.Issuer.Address, data.Issuer.Email}, " | "), props.Text{
					Size:  8,
					Align: align.Left,
					Color: mutedColor,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("No: %s", data.ProposalNumber), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s   Valid until: %s", data.ProposalDate, data.ValidUntil), props.Text{
					Size:  8,
					Align: align.Right,
				}),
			),
		),
	)

	if data.ProposalTitle != "" {
		m.AddRows(
			row.New(9).Add(
				col.New(12).Add(text.New(data.ProposalTitle, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Center,
					Top:   2,
				})),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addCommercialParties adds the client (left) and issuer (right) blocks.
func addCommercialParties(m core.Maroto, data CommercialDocData) {
	sectionLabel := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: mutedColor,
	}
	valueStyle := props.Text{Size: 8, Align: align.Left}
	boldValue := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
	headerCell := &props.Cell{BackgroundColor: bandColor}

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New("PREPARED FOR", sectionLabel)).WithStyle(headerCell),
			col.New(6).Add(text.New("PREPARED BY", sectionLabel)).WithStyle(headerCell),
		),
	)

	rows := []struct {
		left, right string
		style       props.Text
	}{
		{data.ClientName, orNA(data.Issuer.Name), boldValue},
		{data.ClientEmail, orNA(data.Issuer.Email), valueStyle},
		{"", orNA(data.Issuer.Phone), valueStyle},
		{"", fmtField("Tax ID", orNA(data.Issuer.TaxID)), valueStyle},
	}
	for _, r := range rows {
		m.AddRows(
			row.New(6).Add(
				col.New(6).Add(text.New(r.left, r.style)),
				col.New(6).Add(text.New(r.right, r.style)),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addCommercialItemsTable adds the line-item table with alternating rows.
func addCommercialItemsTable(m core.Maroto, data CommercialDocData) {
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: whiteColor,
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: darkColor}

	descWidth := 5
	if data.ShowImages {
		descWidth = 4
	}

	header := []core.Col{col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell)}
	if data.ShowImages {
		header = append(header, col.New(1).Add(text.New("Image", headerText)).WithStyle(headerCell))
	}
	header = append(header,
		col.New(descWidth).Add(text.New("Description", headerTextLeft)).WithStyle(headerCell),
		col.New(1).Add(text.New("Qty", headerText)).WithStyle(headerCell),
		col.New(1).Add(text.New("Unit Price", headerText)).WithStyle(headerCell),
		col.New(1).Add(text.New("Disc %", headerText)).WithStyle(headerCell),
		col.New(1).Add(text.New("Taxable", headerText)).WithStyle(headerCell),
		col.New(2).Add(text.New("Line Total", headerText)).WithStyle(headerCell),
	)
	m.AddRows(row.New(8).Add(header...))

	bodyText := props.Text{Size: 7, Align: align.Center}
	bodyTextLeft := props.Text{Size: 7, Align: align.Left}
	bodyTextRight := props.Text{Size: 7, Align: align.Right}

	for i, line := range data.Lines {
		description := line.Description
		if line.Category != "" {
			description += "\n" + line.Category
		}

		cols := []core.Col{col.New(1).Add(text.New(fmt.Sprintf("%d", line.Index), bodyText))}
		if data.ShowImages {
			cols = append(cols, col.New(1).Add(text.New(imagePlaceholder(line.ImageURL), bodyText)))
		}
		cols = append(cols,
			col.New(descWidth).Add(text.New(description, bodyTextLeft)),
			col.New(1).Add(text.New(line.Qty, bodyTextRight)),
			col.New(1).Add(text.New(line.UnitPrice, bodyTextRight)),
			col.New(1).Add(text.New(line.Discount, bodyText)),
			col.New(1).Add(text.New(line.Taxable, bodyText)),
			col.New(2).Add(text.New(line.LineTotal, bodyTextRight)),
		)

		if i%2 == 1 {
			stripe := &props.Cell{BackgroundColor: stripeColor}
			for j := range cols {
				cols[j] = cols[j].WithStyle(stripe)
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}

	m.AddRows(row.New(2))
}

// addSummaryBlock adds right-aligned summary rows. The emphasized row is
// inverted and followed by an underline rule.
func addSummaryBlock(m core.Maroto, lines []SummaryLine, offset int) {
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}

	for _, l := range lines {
		if l.Emphasis {
			grandLabel := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: whiteColor}
			grandCell := &props.Cell{BackgroundColor: darkColor}
			m.AddRows(
				row.New(8).Add(
					col.New(offset),
					col.New(2).Add(text.New(l.Label, grandLabel)).WithStyle(grandCell),
					col.New(12-offset-2).Add(text.New(l.Value, grandLabel)).WithStyle(grandCell),
				),
			)
			m.AddRows(
				row.New(4).Add(
					col.New(offset),
					col.New(12-offset).Add(text.New("________________________", props.Text{
						Size:  8,
						Align: align.Right,
						Color: darkColor,
					})),
				),
			)
			continue
		}
		m.AddRows(
			row.New(7).Add(
				col.New(offset),
				col.New(2).Add(text.New(l.Label, labelStyle)).WithStyle(summaryCell),
				col.New(12-offset-2).Add(text.New(l.Value, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addTextSection adds a labelled free-text section if body is non-empty.
func addTextSection(m core.Maroto, label, body string) {
	if body == "" {
		return
	}

	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(text.New(label, props.Text{
				Size:  7,
				Style: fontstyle.Bold,
				Align: align.Left,
				Color: mutedColor,
			})),
		),
	)
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(body, props.Text{Size: 8, Align: align.Left})),
		),
	)

	m.AddRows(row.New(3))
}

// addSignatureBlock adds an underline rule followed by title and name.
func addSignatureBlock(m core.Maroto, s Signatory) {
	m.AddRows(row.New(10))

	m.AddRows(
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New("____________________________", props.Text{
				Size:  8,
				Align: align.Center,
				Color: mutedColor,
			})),
		),
	)

	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: mutedColor,
	}
	m.AddRows(
		row.New(5).Add(
			col.New(6),
			col.New(6).Add(text.New(orNA(s.Title), labelStyle)),
		),
		row.New(5).Add(
			col.New(6),
			col.New(6).Add(text.New(orNA(s.Name), props.Text{Size: 8, Align: align.Center})),
		),
	)
}

func imagePlaceholder(url string) string {
	if url == "" {
		return ""
	}
	return "[image]"
}
