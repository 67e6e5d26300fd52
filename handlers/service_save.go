package handlers

import (
	"log"
	"math"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/collections"
	"firmdesk/services"
)

// HandleServiceSave creates an "other service" engagement. Like
// proposals, a service created directly as "Granted" materializes its
// project immediately.
func HandleServiceSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		primaryClient := strings.TrimSpace(e.Request.FormValue("primary_client"))
		status := strings.TrimSpace(e.Request.FormValue("status"))
		feeInput := strings.TrimSpace(e.Request.FormValue("fee"))

		errors := make(map[string]string)
		if title == "" {
			errors["title"] = "Title is required"
		}
		if primaryClient == "" {
			errors["primary_client"] = "Primary client is required"
		}

		fee := 0.0
		if feeInput != "" {
			parsed := services.ParseEuropeanNumber(feeInput)
			if math.IsNaN(parsed) || parsed < 0 {
				errors["fee"] = "Fee must be a valid amount"
			} else {
				fee = parsed
			}
		}

		validStatus := false
		for _, s := range collections.ServiceStatuses {
			if status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			status = "In progress"
		}

		if len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		servicesCol, err := app.FindCollectionByNameOrId("other_services")
		if err != nil {
			log.Printf("service_save: could not find other_services collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(servicesCol)
		record.Set("title", title)
		record.Set("primary_client", primaryClient)
		record.Set("secondary_client", strings.TrimSpace(e.Request.FormValue("secondary_client")))
		record.Set("service_type", strings.TrimSpace(e.Request.FormValue("service_type")))
		record.Set("fee", fee)
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("service_save: could not save service: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if status == "Granted" {
			if _, err := services.DeriveProjects(app); err != nil {
				log.Printf("service_save: project derivation failed: %v", err)
			}
		}

		SetToast(e, "success", "Service created successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleServiceUpdate updates an existing service; a move to "Granted"
// derives the project on the spot.
func HandleServiceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		serviceID := e.Request.PathValue("id")

		record, err := app.FindRecordById("other_services", serviceID)
		if err != nil {
			log.Printf("service_update: could not find service %s: %v", serviceID, err)
			return e.String(http.StatusNotFound, "Service not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		title := strings.TrimSpace(e.Request.FormValue("title"))
		if title == "" {
			return ValidationFailed(e, map[string]string{"title": "Title is required"})
		}
		record.Set("title", title)

		if feeInput := strings.TrimSpace(e.Request.FormValue("fee")); feeInput != "" {
			fee := services.ParseEuropeanNumber(feeInput)
			if math.IsNaN(fee) || fee < 0 {
				return ValidationFailed(e, map[string]string{"fee": "Fee must be a valid amount"})
			}
			record.Set("fee", fee)
		}

		record.Set("service_type", strings.TrimSpace(e.Request.FormValue("service_type")))
		if client := strings.TrimSpace(e.Request.FormValue("primary_client")); client != "" {
			record.Set("primary_client", client)
		}
		record.Set("secondary_client", strings.TrimSpace(e.Request.FormValue("secondary_client")))

		if status := strings.TrimSpace(e.Request.FormValue("status")); status != "" {
			for _, s := range collections.ServiceStatuses {
				if status == s {
					record.Set("status", status)
					break
				}
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("service_update: could not save service %s: %v", serviceID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if record.GetString("status") == "Granted" {
			if _, err := services.DeriveProjects(app); err != nil {
				log.Printf("service_update: project derivation failed: %v", err)
			}
		}

		SetToast(e, "success", "Service updated successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleServiceList returns all services, newest first.
func HandleServiceList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"other_services",
			"id != ''",
			"-created", 0, 0, nil,
		)
		if err != nil {
			log.Printf("service_list: could not load services: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load services")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, map[string]any{
				"id":               r.Id,
				"title":            r.GetString("title"),
				"primary_client":   r.GetString("primary_client"),
				"secondary_client": r.GetString("secondary_client"),
				"service_type":     r.GetString("service_type"),
				"fee":              services.FormatCurrency(r.GetFloat("fee")),
				"status":           r.GetString("status"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"services": items})
	}
}
