package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proposaldesk/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleCatalogTemplate serves the Excel template for catalog imports.
// Route: GET /catalog/import/template
func HandleCatalogTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateCatalogTemplate()
		if err != nil {
			log.Printf("catalog_template: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate template")
		}
		return writeDownload(e, &services.Document{
			Content:     xlsxBytes,
			Filename:    fmt.Sprintf("Catalog_Template_%d.xlsx", time.Now().Year()),
			ContentType: xlsxContentType,
		})
	}
}

// HandleCatalogValidate receives a CSV or XLSX upload and returns the
// normalized products together with per-row errors. Nothing is stored.
// Route: POST /catalog/import
func HandleCatalogValidate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		rows, err := services.ParseCatalogFile(file, header.Filename)
		if err != nil {
			log.Printf("catalog_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		result := services.NormalizeCatalogRows(rows)
		result.FileName = header.Filename
		if result.ErrorRows > 0 {
			SetToast(e, "warning", fmt.Sprintf("%d of %d rows have errors", result.ErrorRows, result.TotalRows))
		}
		return e.JSON(http.StatusOK, result)
	}
}

type catalogCommitRequest struct {
	Products []services.CatalogProduct `json:"products"`
}

// HandleCatalogCommit stores previously validated products.
// Route: POST /catalog/import/commit
func HandleCatalogCommit(app core.App) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req catalogCommitRequest
		if err := decodeJSON(e, &req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid product data")
		}
		if len(req.Products) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "File data missing. Please re-upload and try again.")
		}

		result, err := services.CommitCatalogImport(app, req.Products)
		if err != nil {
			log.Printf("catalog_import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if result.Failed > 0 {
			SetToast(e, "warning", fmt.Sprintf("%d products could not be imported", result.Failed))
		} else {
			SetToast(e, "success", fmt.Sprintf("%d products imported successfully", result.Created+result.Updated))
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleCatalogErrorReport downloads the posted import errors as an Excel file.
// Route: POST /catalog/import/errors
func HandleCatalogErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var importErrors []services.ImportError
		if err := decodeJSON(e, &importErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(importErrors)
		if err != nil {
			log.Printf("error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return writeDownload(e, &services.Document{
			Content:     xlsxBytes,
			Filename:    fmt.Sprintf("Catalog_Errors_%s.xlsx", time.Now().Format("2006-01-02")),
			ContentType: xlsxContentType,
		})
	}
}
