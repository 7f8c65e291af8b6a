package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposaldesk/collections"
	"proposaldesk/config"
	"proposaldesk/handlers"
)

func main() {
	cfg := config.Load()
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if cfg.SeedDemo {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Proposal CRUD ───────────────────────────────────────
		se.Router.POST("/api/proposals", handlers.HandleProposalCreate(app, cfg))
		se.Router.GET("/api/proposals/{id}", handlers.HandleProposalGet(app))
		se.Router.PATCH("/api/proposals/{id}", handlers.HandleProposalPatch(app))
		se.Router.DELETE("/api/proposals/{id}", handlers.HandleProposalDelete(app))

		// ── Line items ──────────────────────────────────────────
		se.Router.POST("/api/proposals/{id}/products", handlers.HandleAddProduct(app))
		se.Router.POST("/api/proposals/{id}/rfq-items", handlers.HandleAddRFQItem(app))
		se.Router.POST("/api/proposals/{id}/items/{itemId}/duplicate", handlers.HandleDuplicateItem(app))
		se.Router.PATCH("/api/proposals/{id}/items/{itemId}", handlers.HandlePatchItem(app))
		se.Router.DELETE("/api/proposals/{id}/items/{itemId}", handlers.HandleDeleteItem(app))

		// ── Validation & lifecycle ──────────────────────────────
		se.Router.GET("/api/proposals/{id}/validate", handlers.HandleProposalValidate(app))
		se.Router.POST("/api/proposals/{id}/status", handlers.HandleProposalStatus(app))

		// ── Documents ───────────────────────────────────────────
		se.Router.GET("/proposals/{id}/generate", handlers.HandleProposalGenerate(app, cfg))
		se.Router.GET("/proposals/{id}/preview", handlers.HandleProposalPreview(app, cfg))
		se.Router.GET("/proposals/{id}/export/excel", handlers.HandleProposalExcel(app, cfg))

		// ── Catalog import ──────────────────────────────────────
		se.Router.GET("/catalog/import/template", handlers.HandleCatalogTemplate())
		se.Router.POST("/catalog/import", handlers.HandleCatalogValidate())
		se.Router.POST("/catalog/import/commit", handlers.HandleCatalogCommit(app))
		se.Router.POST("/catalog/import/errors", handlers.HandleCatalogErrorReport())

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.String(http.StatusOK, "proposaldesk")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
