package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/sync/singleflight"

	"proposaldesk/config"
	"proposaldesk/services"
)

// HandleProposalGenerate renders the downloadable document for the proposal's
// template. Concurrent requests for the same proposal share one render. When
// the PDF renderer fails, or ?fallback=print is given, the printable preview
// is returned instead.
// Route: GET /proposals/{id}/generate
func HandleProposalGenerate(app core.App, cfg *config.Config) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	var group singleflight.Group

	return func(e *core.RequestEvent) error {
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		if errs := services.ValidateProposal(p, services.ActionGenerate); len(errs) > 0 {
			return ValidationToast(e, http.StatusUnprocessableEntity, errs)
		}

		in, err := renderInput(app, cfg, p)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		if e.Request.URL.Query().Get("fallback") == "print" {
			return printFallback(e, in)
		}

		v, err, _ := group.Do(p.ID, func() (any, error) {
			renderer, err := services.RendererFor(p.TemplateType)
			if err != nil {
				return nil, err
			}
			return renderer.Render(in)
		})
		if err != nil {
			var rerr *services.RenderError
			if errors.As(err, &rerr) {
				log.Printf("generate: %s: %v, falling back to print view", p.ID, err)
				SetToast(e, "warning", "PDF generation failed, opening the print view instead")
				return printFallback(e, in)
			}
			log.Printf("generate: %s: %v", p.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate document")
		}
		return writeDownload(e, v.(*services.Document))
	}
}

func printFallback(e *core.RequestEvent, in services.RenderInput) error {
	doc, err := services.PreviewRenderer{Printable: true}.Render(in)
	if err != nil {
		log.Printf("generate: print fallback: %v", err)
		return ErrorToast(e, http.StatusInternalServerError, "Failed to generate document")
	}
	return e.HTML(http.StatusOK, string(doc.Content))
}

// HandleProposalPreview returns the HTML preview. ?print=1 wraps it in a
// standalone printable page.
// Route: GET /proposals/{id}/preview
func HandleProposalPreview(app core.App, cfg *config.Config) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		in, err := renderInput(app, cfg, p)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		printable := e.Request.URL.Query().Get("print") == "1"
		doc, err := services.PreviewRenderer{Printable: printable}.Render(in)
		if err != nil {
			var rerr *services.RenderError
			if errors.As(err, &rerr) {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Add at least one item to preview this proposal")
			}
			log.Printf("preview: %s: %v", p.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to render preview")
		}
		return e.HTML(http.StatusOK, string(doc.Content))
	}
}

// HandleProposalExcel downloads the active line items as a workbook.
// Route: GET /proposals/{id}/export/excel
func HandleProposalExcel(app core.App, cfg *config.Config) func(*core.RequestEvent) error {
	store := services.NewRecordStore(app)
	return func(e *core.RequestEvent) error {
		p, err := loadProposal(e, store)
		if p == nil {
			return err
		}
		in, err := renderInput(app, cfg, p)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		content, err := services.GenerateProposalExcel(in)
		if err != nil {
			var rerr *services.RenderError
			if errors.As(err, &rerr) {
				return ErrorToast(e, http.StatusUnprocessableEntity, "Add at least one item to export this proposal")
			}
			log.Printf("export_excel: %s: %v", p.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return writeDownload(e, &services.Document{
			Content:     content,
			Filename:    services.ExcelFilename(p),
			ContentType: xlsxContentType,
		})
	}
}
