package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// projectClientIDs collects the ids of a project's primary and secondary
// clients — the only clients a milestone may bill.
func projectClientIDs(project *core.Record) []string {
	ids := project.GetStringSlice("primary_clients")
	return append(ids, project.GetStringSlice("secondary_clients")...)
}

// HandleBillingCreate adds a billing milestone to a project. The
// milestone starts Invoice_pending; its percentage is derived from the
// amount and the project fee on every display, never stored.
func HandleBillingCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("billing_create: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		input := services.MilestoneInput{
			ClientID:    strings.TrimSpace(e.Request.FormValue("client")),
			Description: strings.TrimSpace(e.Request.FormValue("description")),
			Amount:      strings.TrimSpace(e.Request.FormValue("amount")),
			DueDate:     strings.TrimSpace(e.Request.FormValue("due_date")),
		}

		if errors := services.ValidateMilestone(input, projectClientIDs(project)); len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		billingCol, err := app.FindCollectionByNameOrId("billing_items")
		if err != nil {
			log.Printf("billing_create: could not find billing_items collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		amount := services.ParseEuropeanNumber(input.Amount)
		dueDate, _ := time.Parse(services.DateLayout, input.DueDate)

		record := core.NewRecord(billingCol)
		record.Set("project", projectID)
		record.Set("client", input.ClientID)
		record.Set("description", input.Description)
		record.Set("amount", amount)
		record.Set("due_date", dueDate)
		record.Set("invoice_status", services.BillingPending)

		if err := app.Save(record); err != nil {
			log.Printf("billing_create: could not save milestone: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Billing milestone added")
		return e.JSON(http.StatusOK, map[string]string{
			"id":         record.Id,
			"percentage": services.MilestonePercentage(amount, project.GetFloat("fee")),
		})
	}
}

// HandleBillingEdit updates a milestone's client, description, amount
// and due date. The invoice status is not editable here — transitions go
// through the status endpoint so the monotonicity rules apply.
func HandleBillingEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		billingID := e.Request.PathValue("id")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("billing_edit: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		record, err := app.FindRecordById("billing_items", billingID)
		if err != nil || record.GetString("project") != projectID {
			log.Printf("billing_edit: could not find milestone %s on project %s: %v", billingID, projectID, err)
			return e.String(http.StatusNotFound, "Billing milestone not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		input := services.MilestoneInput{
			ClientID:    strings.TrimSpace(e.Request.FormValue("client")),
			Description: strings.TrimSpace(e.Request.FormValue("description")),
			Amount:      strings.TrimSpace(e.Request.FormValue("amount")),
			DueDate:     strings.TrimSpace(e.Request.FormValue("due_date")),
		}

		if errors := services.ValidateMilestone(input, projectClientIDs(project)); len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		amount := services.ParseEuropeanNumber(input.Amount)
		dueDate, _ := time.Parse(services.DateLayout, input.DueDate)

		record.Set("client", input.ClientID)
		record.Set("description", input.Description)
		record.Set("amount", amount)
		record.Set("due_date", dueDate)

		if err := app.Save(record); err != nil {
			log.Printf("billing_edit: could not save milestone %s: %v", billingID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Billing milestone updated")
		return e.JSON(http.StatusOK, map[string]string{
			"id":         record.Id,
			"percentage": services.MilestonePercentage(amount, project.GetFloat("fee")),
		})
	}
}
