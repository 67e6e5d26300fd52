package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleCustomerList returns all customers ordered by name.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"customers",
			"id != ''",
			"name", 0, 0, nil,
		)
		if err != nil {
			log.Printf("customer_list: could not load customers: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load customers")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, map[string]any{
				"id":           r.Id,
				"name":         r.GetString("name"),
				"company_name": r.GetString("company_name"),
				"country":      r.GetString("country"),
				"region":       r.GetString("region"),
				"category":     r.GetString("category"),
				"status":       r.GetString("status"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"customers": items})
	}
}
