package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleProposalList returns all proposals, newest first, with their
// derived aggregates formatted for display.
func HandleProposalList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"proposals",
			"id != ''",
			"-created", 0, 0, nil,
		)
		if err != nil {
			log.Printf("proposal_list: could not load proposals: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load proposals")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, map[string]any{
				"id":                r.Id,
				"title":             r.GetString("title"),
				"call":              r.GetString("call"),
				"status":            r.GetString("status"),
				"primary_clients":   r.GetStringSlice("primary_clients"),
				"secondary_clients": r.GetStringSlice("secondary_clients"),
				"budget_funding":    services.FormatCurrency(r.GetFloat("budget_funding")),
				"fee":               services.FormatCurrency(r.GetFloat("fee")),
				"created":           r.GetString("created"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"proposals": items})
	}
}

// HandleProposalView returns a single proposal with its full per-client
// financial mapping, re-derived so stale stored values never reach the
// client.
func HandleProposalView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proposalID := e.Request.PathValue("id")

		record, err := app.FindRecordById("proposals", proposalID)
		if err != nil {
			log.Printf("proposal_view: could not find proposal %s: %v", proposalID, err)
			return e.String(http.StatusNotFound, "Proposal not found")
		}

		financials := make(map[string]services.ClientFinancials)
		if err := record.UnmarshalJSONField("client_financials", &financials); err != nil {
			log.Printf("proposal_view: corrupt client_financials on %s, treating as empty: %v", proposalID, err)
			financials = make(map[string]services.ClientFinancials)
		}
		financials = services.RecalcAllFinancials(financials)
		budgetFunding, fee := services.ProposalAggregates(financials)

		return e.JSON(http.StatusOK, map[string]any{
			"id":                record.Id,
			"title":             record.GetString("title"),
			"call":              record.GetString("call"),
			"status":            record.GetString("status"),
			"primary_clients":   record.GetStringSlice("primary_clients"),
			"secondary_clients": record.GetStringSlice("secondary_clients"),
			"client_financials": financials,
			"budget_funding":    services.FormatCurrency(budgetFunding),
			"fee":               services.FormatCurrency(fee),
		})
	}
}
