package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/collections"
	"firmdesk/services"
)

// parseClientFinancials decodes the per-client financial mapping posted
// by the proposal form. A malformed payload degrades to an empty mapping
// rather than failing the request.
func parseClientFinancials(raw string) map[string]services.ClientFinancials {
	records := make(map[string]services.ClientFinancials)
	if strings.TrimSpace(raw) == "" {
		return records
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("proposal_save: malformed client_financials payload, ignoring: %v", err)
		return make(map[string]services.ClientFinancials)
	}
	return records
}

// applyProposalFinancials re-derives every client record and the
// proposal-level aggregates, then writes all three fields onto the
// record. The aggregates are always the sum of the per-client derived
// values — never edited directly.
func applyProposalFinancials(record *core.Record, financials map[string]services.ClientFinancials) {
	recalced := services.RecalcAllFinancials(financials)
	budgetFunding, fee := services.ProposalAggregates(recalced)
	record.Set("client_financials", recalced)
	record.Set("budget_funding", budgetFunding)
	record.Set("fee", fee)
}

// HandleProposalSave creates a proposal, deriving financial aggregates
// from the posted per-client records. A proposal created directly as
// "Granted" triggers project derivation immediately.
func HandleProposalSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		status := strings.TrimSpace(e.Request.FormValue("status"))

		errors := make(map[string]string)
		if title == "" {
			errors["title"] = "Title is required"
		}

		validStatus := false
		for _, s := range collections.ProposalStatuses {
			if status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			status = "In Progress"
		}

		if len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		proposalsCol, err := app.FindCollectionByNameOrId("proposals")
		if err != nil {
			log.Printf("proposal_save: could not find proposals collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(proposalsCol)
		record.Set("title", title)
		record.Set("call", strings.TrimSpace(e.Request.FormValue("call")))
		record.Set("primary_clients", e.Request.Form["primary_clients"])
		record.Set("secondary_clients", e.Request.Form["secondary_clients"])
		record.Set("status", status)
		applyProposalFinancials(record, parseClientFinancials(e.Request.FormValue("client_financials")))

		if err := app.Save(record); err != nil {
			log.Printf("proposal_save: could not save proposal: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if status == "Granted" {
			if _, err := services.DeriveProjects(app); err != nil {
				log.Printf("proposal_save: project derivation failed: %v", err)
			}
		}

		SetToast(e, "success", "Proposal created successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleProposalUpdate updates a proposal and re-derives its financial
// aggregates. Moving the status to "Granted" materializes the project on
// the spot instead of waiting for the next poll.
func HandleProposalUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")

		record, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			log.Printf("proposal_update: could not find proposal %s: %v", proposalID, err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		if title == "" {
			return ValidationFailed(e, map[string]string{"title": "Title is required"})
		}

		record.Set("title", title)
		if call := strings.TrimSpace(e.Request.FormValue("call")); call != "" {
			record.Set("call", call)
		}
		if _, ok := e.Request.Form["primary_clients"]; ok {
			record.Set("primary_clients", e.Request.Form["primary_clients"])
		}
		if _, ok := e.Request.Form["secondary_clients"]; ok {
			record.Set("secondary_clients", e.Request.Form["secondary_clients"])
		}

		if status := strings.TrimSpace(e.Request.FormValue("status")); status != "" {
			for _, s := range collections.ProposalStatuses {
				if status == s {
					record.Set("status", status)
					break
				}
			}
		}

		if raw, ok := e.Request.Form["client_financials"]; ok && len(raw) > 0 {
			applyProposalFinancials(record, parseClientFinancials(raw[0]))
		}

		if err := app.Save(record); err != nil {
			log.Printf("proposal_update: could not save proposal %s: %v", proposalID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if record.GetString("status") == "Granted" {
			if _, err := services.DeriveProjects(app); err != nil {
				log.Printf("proposal_update: project derivation failed: %v", err)
			}
		}

		SetToast(e, "success", "Proposal updated successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}
