package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleCallSave creates a funding call from form data.
func HandleCallSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		deadline := strings.TrimSpace(e.Request.FormValue("deadline"))
		budget := strings.TrimSpace(e.Request.FormValue("budget"))

		errors := make(map[string]string)
		if name == "" {
			errors["name"] = "Call name is required"
		}

		var deadlineTime time.Time
		if deadline != "" {
			parsed, err := time.Parse(services.DateLayout, deadline)
			if err != nil {
				errors["deadline"] = "Deadline must be a valid dd/mm/yyyy date"
			} else {
				deadlineTime = parsed
			}
		}

		budgetValue := 0.0
		if budget != "" {
			parsed := services.ParseEuropeanNumber(budget)
			if math.IsNaN(parsed) || parsed < 0 {
				errors["budget"] = "Budget must be a valid amount"
			} else {
				budgetValue = parsed
			}
		}

		if len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		callsCol, err := app.FindCollectionByNameOrId("calls")
		if err != nil {
			log.Printf("call_save: could not find calls collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(callsCol)
		year := services.ParseEuropeanNumber(e.Request.FormValue("year"))
		if math.IsNaN(year) {
			year = 0
		}

		record.Set("name", name)
		record.Set("funding_body", strings.TrimSpace(e.Request.FormValue("funding_body")))
		record.Set("year", year)
		if !deadlineTime.IsZero() {
			record.Set("deadline", deadlineTime)
		}
		record.Set("budget", budgetValue)
		record.Set("eligibility", strings.TrimSpace(e.Request.FormValue("eligibility")))

		if err := app.Save(record); err != nil {
			log.Printf("call_save: could not save call: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Call created successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleCallList returns all funding calls, newest first.
func HandleCallList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"calls",
			"id != ''",
			"-created", 0, 0, nil,
		)
		if err != nil {
			log.Printf("call_list: could not load calls: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load calls")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, map[string]any{
				"id":           r.Id,
				"name":         r.GetString("name"),
				"funding_body": r.GetString("funding_body"),
				"year":         r.GetFloat("year"),
				"deadline":     r.GetString("deadline"),
				"budget":       services.FormatCurrency(r.GetFloat("budget")),
				"eligibility":  r.GetString("eligibility"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"calls": items})
	}
}
