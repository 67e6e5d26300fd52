package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Status values shared between collections and the service layer.
var (
	ProposalStatuses = []string{"In Progress", "Pending", "Granted", "Dismissed"}
	ServiceStatuses  = []string{"In progress", "Offer sent", "Granted", "Dismissed"}
	ProjectStatuses  = []string{"Ongoing", "Ended"}
	BillingStatuses  = []string{"Invoice_pending", "Invoice_sent", "Invoice_paid"}
	TaskPriorities   = []string{"Low", "Medium", "High"}
	TaskStatuses     = []string{"Pending", "In progress", "Completed"}
	InvoiceStatuses  = []string{"draft", "sent"}
	VATOptions       = []string{"21", "exempt"}
)

// Setup programmatically creates/ensures all firmdesk collections exist:
// customers, calls, proposals, other_services, projects, billing_items,
// tasks, invoices, company_settings and sync_state.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "country", Required: false})
		c.Fields.Add(&core.TextField{Name: "region", Required: false})
		c.Fields.Add(&core.EmailField{Name: "email", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    []string{"Contractor", "Secondary"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "status", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	calls := ensureCollection(app, "calls", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "funding_body", Required: false})
		c.Fields.Add(&core.NumberField{Name: "year", Required: false})
		c.Fields.Add(&core.DateField{Name: "deadline", Required: false})
		c.Fields.Add(&core.NumberField{Name: "budget", Required: false})
		c.Fields.Add(&core.TextField{Name: "eligibility", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "proposals", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "call",
			Required:     false,
			CollectionId: calls.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "primary_clients",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    99,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "secondary_clients",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    99,
		})
		// Per-client financial records keyed by customer id:
		// {budget, grant, loan, equity, grant_fee, loan_fee, equity_fee,
		//  total_funding, fee}
		c.Fields.Add(&core.JSONField{Name: "client_financials"})
		c.Fields.Add(&core.NumberField{Name: "budget_funding", Required: false})
		c.Fields.Add(&core.NumberField{Name: "fee", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ProposalStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "other_services", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "primary_client",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "secondary_client",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "service_type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "fee", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ServiceStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "source_kind",
			Required:  true,
			Values:    []string{"proposal", "service"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "source_id", Required: true})
		// Deterministic key ("proposal-<id>" / "service-<id>") that makes
		// derivation idempotent. Unique index below.
		c.Fields.Add(&core.TextField{Name: "source_key", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:         "primary_clients",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    99,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "secondary_clients",
			Required:     false,
			CollectionId: customers.Id,
			MaxSelect:    99,
		})
		c.Fields.Add(&core.NumberField{Name: "fee", Required: false})
		c.Fields.Add(&core.NumberField{Name: "budget_funding", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ProjectStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "start_date", Required: false})
		c.Fields.Add(&core.DateField{Name: "end_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "payment_conditions", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_projects_source_key", true, "source_key", "")
	})

	billingItems := ensureCollection(app, "billing_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.DateField{Name: "due_date", Required: true})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "invoice_status",
			Required:  true,
			Values:    BillingStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "tasks", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.DateField{Name: "due_date", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "priority",
			Required:  true,
			Values:    TaskPriorities,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    TaskStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "invoices", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "billing",
			Required:     true,
			CollectionId: billingItems.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "project",
			Required:     true,
			CollectionId: projects.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "client_name", Required: false})
		c.Fields.Add(&core.DateField{Name: "date", Required: false})
		// Empty until the invoice is sent; then "YYYY/NNN".
		c.Fields.Add(&core.TextField{Name: "number", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "vat_option",
			Required:  true,
			Values:    VATOptions,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "vat_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    InvoiceStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_invoices_billing", true, "billing", "")
	})

	ensureCollection(app, "company_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_id", Required: false})
		c.Fields.Add(&core.EmailField{Name: "billing_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "smtp_host", Required: false})
		c.Fields.Add(&core.NumberField{Name: "smtp_port", Required: false})
		c.Fields.Add(&core.TextField{Name: "smtp_user", Required: false})
		c.Fields.Add(&core.TextField{Name: "smtp_password", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	// Reconciler bookkeeping. Deliberately excluded from the snapshot.
	ensureCollection(app, "sync_state", func(c *core.Collection) {
		c.Fields.Add(&core.DateField{Name: "updated_at", Required: false})
		c.Fields.Add(&core.TextField{Name: "last_pushed_hash", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
