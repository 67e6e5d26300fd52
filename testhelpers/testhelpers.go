// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCustomer creates a customer record with the given name.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("company_name", name+" SL")
	record.Set("country", "Spain")
	record.Set("email", "billing@example.com")
	record.Set("category", "Contractor")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestCall creates a funding call record.
func CreateTestCall(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("calls")
	if err != nil {
		t.Fatalf("failed to find calls collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("funding_body", "CDTI")
	record.Set("year", 2026)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test call: %v", err)
	}

	return record
}

// CreateTestProposal creates a proposal with the given status and clients.
func CreateTestProposal(t *testing.T, app *pocketbase.PocketBase, title, status string, clientIDs ...string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		t.Fatalf("failed to find proposals collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("primary_clients", clientIDs)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test proposal: %v", err)
	}

	return record
}

// CreateTestService creates an other_services record with the given status.
func CreateTestService(t *testing.T, app *pocketbase.PocketBase, title, status, clientID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("other_services")
	if err != nil {
		t.Fatalf("failed to find other_services collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("primary_client", clientID)
	record.Set("service_type", "Advisory")
	record.Set("fee", 5000.0)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test service: %v", err)
	}

	return record
}

// CreateTestProject creates a project record with a deterministic source
// key, the way derivation would.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, title string, fee float64, clientIDs ...string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	sourceID := "src-" + title

	record := core.NewRecord(col)
	record.Set("title", title)
	record.Set("source_kind", "proposal")
	record.Set("source_id", sourceID)
	record.Set("source_key", "proposal-"+sourceID)
	record.Set("primary_clients", clientIDs)
	record.Set("fee", fee)
	record.Set("status", "Ongoing")
	record.Set("start_date", time.Now().UTC())

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestBillingItem creates a billing milestone on a project.
func CreateTestBillingItem(t *testing.T, app *pocketbase.PocketBase, projectID, clientID string, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("billing_items")
	if err != nil {
		t.Fatalf("failed to find billing_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("client", clientID)
	record.Set("description", "Milestone")
	record.Set("amount", amount)
	record.Set("due_date", time.Now().UTC().AddDate(0, 1, 0))
	record.Set("invoice_status", "Invoice_pending")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test billing item: %v", err)
	}

	return record
}

// CreateTestTask creates a task on a project.
func CreateTestTask(t *testing.T, app *pocketbase.PocketBase, projectID, title string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("tasks")
	if err != nil {
		t.Fatalf("failed to find tasks collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("title", title)
	record.Set("priority", "Medium")
	record.Set("status", "Pending")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test task: %v", err)
	}

	return record
}

// CreateTestInvoice creates an invoice for a billing milestone.
func CreateTestInvoice(t *testing.T, app *pocketbase.PocketBase, billingID, projectID, number, status string, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("invoices")
	if err != nil {
		t.Fatalf("failed to find invoices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("billing", billingID)
	record.Set("project", projectID)
	record.Set("amount", amount)
	record.Set("client_name", "Test Client")
	record.Set("date", time.Now().UTC())
	record.Set("number", number)
	record.Set("vat_option", "21")
	record.Set("vat_amount", amount*0.21)
	record.Set("total", amount*1.21)
	record.Set("status", status)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test invoice: %v", err)
	}

	return record
}
