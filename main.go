package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/robfig/cron/v3"

	"firmdesk/collections"
	"firmdesk/handlers"
	"firmdesk/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment as-is")
	}

	app := pocketbase.New()

	var syncEngine *services.SyncEngine
	if baseURL := os.Getenv("SYNC_URL"); baseURL != "" {
		syncEngine = services.NewSyncEngine(app, services.NewSyncClient(baseURL, os.Getenv("SYNC_TOKEN")))
	}

	// Create collections, seed data and derive projects on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}

		if syncEngine != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := syncEngine.ResolveOnStart(ctx); err != nil {
				log.Printf("Warning: startup sync failed: %v", err)
			}
		}

		if created, err := services.DeriveProjects(app); err != nil {
			log.Printf("Warning: project derivation failed: %v", err)
		} else if created > 0 {
			log.Printf("derived %d new project(s) from granted work", created)
		}
		return se.Next()
	})

	// Background schedules: the sync interval push and a derivation poll
	// that picks up granted work regardless of which code path granted it.
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		scheduler := cron.New()

		if syncEngine != nil {
			syncEvery := os.Getenv("SYNC_INTERVAL")
			if syncEvery == "" {
				syncEvery = "@every 15s"
			}
			if _, err := scheduler.AddFunc(syncEvery, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := syncEngine.PushIfChanged(ctx); err != nil {
					log.Printf("sync: push failed: %v", err)
				}
			}); err != nil {
				log.Printf("Warning: could not schedule sync: %v", err)
			}
		}

		deriveEvery := os.Getenv("DERIVE_INTERVAL")
		if deriveEvery == "" {
			deriveEvery = "@every 1m"
		}
		if _, err := scheduler.AddFunc(deriveEvery, func() {
			if created, err := services.DeriveProjects(app); err != nil {
				log.Printf("derive: %v", err)
			} else if created > 0 {
				log.Printf("derived %d new project(s) from granted work", created)
			}
		}); err != nil {
			log.Printf("Warning: could not schedule derivation: %v", err)
		}

		scheduler.Start()
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Customers ────────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.POST("/customers", handlers.HandleCustomerSave(app))
		se.Router.POST("/customers/{id}/save", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/customers/{id}", handlers.HandlePolicyDelete(app, "customer"))

		// ── Funding calls ────────────────────────────────────────
		se.Router.GET("/calls", handlers.HandleCallList(app))
		se.Router.POST("/calls", handlers.HandleCallSave(app))
		se.Router.DELETE("/calls/{id}", handlers.HandlePolicyDelete(app, "call"))

		// ── Proposals ────────────────────────────────────────────
		se.Router.GET("/proposals", handlers.HandleProposalList(app))
		se.Router.POST("/proposals", handlers.HandleProposalSave(app))
		se.Router.GET("/proposals/{id}", handlers.HandleProposalView(app))
		se.Router.POST("/proposals/{id}/save", handlers.HandleProposalUpdate(app))
		se.Router.DELETE("/proposals/{id}", handlers.HandlePolicyDelete(app, "proposal"))

		// ── Other services ───────────────────────────────────────
		se.Router.GET("/services", handlers.HandleServiceList(app))
		se.Router.POST("/services", handlers.HandleServiceSave(app))
		se.Router.POST("/services/{id}/save", handlers.HandleServiceUpdate(app))
		se.Router.DELETE("/services/{id}", handlers.HandlePolicyDelete(app, "service"))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandlePolicyDelete(app, "project"))

		// ── Billing milestones ───────────────────────────────────
		se.Router.POST("/projects/{projectId}/billing", handlers.HandleBillingCreate(app))
		se.Router.POST("/projects/{projectId}/billing/{id}/save", handlers.HandleBillingEdit(app))
		se.Router.POST("/billing/{id}/status", handlers.HandleBillingStatus(app))
		se.Router.DELETE("/billing/{id}", handlers.HandlePolicyDelete(app, "billing milestone"))

		// ── Tasks ────────────────────────────────────────────────
		se.Router.POST("/projects/{projectId}/tasks", handlers.HandleTaskCreate(app))
		se.Router.POST("/projects/{projectId}/tasks/{id}/save", handlers.HandleTaskUpdate(app))
		se.Router.DELETE("/tasks/{id}", handlers.HandlePolicyDelete(app, "task"))

		// ── Invoices ─────────────────────────────────────────────
		se.Router.GET("/invoices", handlers.HandleInvoiceList(app))
		se.Router.GET("/invoices/export/excel", handlers.HandleInvoiceRegisterExport(app))
		se.Router.GET("/billing/{billingId}/invoice", handlers.HandleInvoiceView(app))
		se.Router.POST("/invoices/{id}/save", handlers.HandleInvoiceSave(app))
		se.Router.POST("/invoices/{id}/send", handlers.HandleInvoiceSend(app))
		se.Router.GET("/invoices/{id}/export/pdf", handlers.HandleInvoicePDF(app))
		se.Router.DELETE("/invoices/{id}", handlers.HandlePolicyDelete(app, "invoice"))

		// ── Sync ─────────────────────────────────────────────────
		se.Router.POST("/sync/now", handlers.HandleSyncNow(syncEngine))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
