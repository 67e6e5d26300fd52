package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/collections"
	"firmdesk/services"
)

// HandleProjectUpdate edits the user-owned parts of a project: status,
// dates and payment conditions. The derived fields (source linkage,
// clients, fee) are a one-shot snapshot taken at grant time and are not
// editable here — derivation never regenerates an edited project either.
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_update: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		errors := make(map[string]string)

		if status := strings.TrimSpace(e.Request.FormValue("status")); status != "" {
			valid := false
			for _, s := range collections.ProjectStatuses {
				if status == s {
					valid = true
					break
				}
			}
			if !valid {
				errors["status"] = "Unknown project status"
			} else {
				record.Set("status", status)
			}
		}

		for _, field := range []string{"start_date", "end_date"} {
			input := strings.TrimSpace(e.Request.FormValue(field))
			if input == "" {
				continue
			}
			parsed, err := time.Parse(services.DateLayout, input)
			if err != nil {
				errors[field] = "Must be a valid dd/mm/yyyy date"
				continue
			}
			record.Set(field, parsed)
		}

		if len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		if _, ok := e.Request.Form["payment_conditions"]; ok {
			record.Set("payment_conditions", strings.TrimSpace(e.Request.FormValue("payment_conditions")))
		}

		if err := app.Save(record); err != nil {
			log.Printf("project_update: could not save project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Project updated successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}
