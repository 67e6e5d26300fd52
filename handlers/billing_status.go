package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleBillingStatus processes a requested invoice-status change on a
// billing milestone. Regressions are silently ignored (the store stays
// untouched and the current status is returned). Marking a milestone
// paid is a two-step flow: the first request answers with
// confirmation_required and applies nothing; only a request carrying
// confirm=true applies the change.
func HandleBillingStatus(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		billingID := e.Request.PathValue("id")

		record, err := app.FindRecordById("billing_items", billingID)
		if err != nil {
			log.Printf("billing_status: could not find milestone %s: %v", billingID, err)
			return e.String(http.StatusNotFound, "Billing milestone not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		current := record.GetString("invoice_status")
		next := strings.TrimSpace(e.Request.FormValue("status"))
		confirmed := e.Request.FormValue("confirm") == "true"

		switch services.ProposeBillingTransition(current, next) {
		case services.TransitionRejected:
			log.Printf("billing_status: ignored %s -> %s on milestone %s", current, next, billingID)
			return e.JSON(http.StatusOK, map[string]any{
				"id":             record.Id,
				"invoice_status": current,
			})

		case services.TransitionNeedsConfirmation:
			if !confirmed {
				return e.JSON(http.StatusOK, map[string]any{
					"id":                    record.Id,
					"invoice_status":        current,
					"confirmation_required": true,
					"next_status":           next,
				})
			}
		}

		if next != current {
			record.Set("invoice_status", next)
			if err := app.Save(record); err != nil {
				log.Printf("billing_status: could not save milestone %s: %v", billingID, err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
			SetToast(e, "success", "Billing status updated")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":             record.Id,
			"invoice_status": record.GetString("invoice_status"),
		})
	}
}
