package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

var CustomerCategories = []string{"Contractor", "Secondary"}

// HandleCustomerSave creates a new customer from form data.
func HandleCustomerSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		companyName := strings.TrimSpace(e.Request.FormValue("company_name"))
		country := strings.TrimSpace(e.Request.FormValue("country"))
		region := strings.TrimSpace(e.Request.FormValue("region"))
		category := strings.TrimSpace(e.Request.FormValue("category"))
		status := strings.TrimSpace(e.Request.FormValue("status"))

		errors := make(map[string]string)
		if name == "" {
			errors["name"] = "Name is required"
		}

		validCategory := false
		for _, c := range CustomerCategories {
			if category == c {
				validCategory = true
				break
			}
		}
		if !validCategory {
			category = "Contractor"
		}

		if len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		customersCol, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customer_save: could not find customers collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(customersCol)
		record.Set("name", name)
		record.Set("company_name", companyName)
		record.Set("country", country)
		record.Set("region", region)
		record.Set("email", strings.TrimSpace(e.Request.FormValue("email")))
		record.Set("category", category)
		record.Set("status", status)

		if err := app.Save(record); err != nil {
			log.Printf("customer_save: could not save customer: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Customer created successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleCustomerUpdate updates an existing customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		customerID := e.Request.PathValue("id")

		record, err := app.FindRecordById("customers", customerID)
		if err != nil {
			log.Printf("customer_update: could not find customer %s: %v", customerID, err)
			return e.String(http.StatusNotFound, "Customer not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			return ValidationFailed(e, map[string]string{"name": "Name is required"})
		}

		record.Set("name", name)
		record.Set("company_name", strings.TrimSpace(e.Request.FormValue("company_name")))
		record.Set("country", strings.TrimSpace(e.Request.FormValue("country")))
		record.Set("region", strings.TrimSpace(e.Request.FormValue("region")))
		if _, ok := e.Request.Form["email"]; ok {
			record.Set("email", strings.TrimSpace(e.Request.FormValue("email")))
		}
		record.Set("status", strings.TrimSpace(e.Request.FormValue("status")))

		if category := strings.TrimSpace(e.Request.FormValue("category")); category != "" {
			for _, c := range CustomerCategories {
				if category == c {
					record.Set("category", category)
					break
				}
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("customer_update: could not save customer %s: %v", customerID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Customer updated successfully")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}
