package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleProjectList returns all projects, newest first.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter(
			"projects",
			"id != ''",
			"-created", 0, 0, nil,
		)
		if err != nil {
			log.Printf("project_list: could not load projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load projects")
		}

		items := make([]map[string]any, 0, len(records))
		for _, r := range records {
			items = append(items, map[string]any{
				"id":          r.Id,
				"title":       r.GetString("title"),
				"source_kind": r.GetString("source_kind"),
				"source_id":   r.GetString("source_id"),
				"status":      r.GetString("status"),
				"fee":         services.FormatCurrency(r.GetFloat("fee")),
				"start_date":  r.GetString("start_date"),
				"end_date":    r.GetString("end_date"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{"projects": items})
	}
}

// HandleProjectView returns a project with its billing schedule, the
// schedule reconciliation verdict, and its tasks. Milestone percentages
// and the verdict are recomputed on every view, never read from storage.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_view: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		fee := project.GetFloat("fee")

		milestones, err := app.FindRecordsByFilter(
			"billing_items",
			"project = {:projectId}",
			"due_date", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			log.Printf("project_view: could not load billing items for %s: %v", projectID, err)
			milestones = nil
		}

		amounts := make([]float64, 0, len(milestones))
		schedule := make([]map[string]any, 0, len(milestones))
		for _, m := range milestones {
			amount := m.GetFloat("amount")
			amounts = append(amounts, amount)
			schedule = append(schedule, map[string]any{
				"id":             m.Id,
				"client":         m.GetString("client"),
				"client_name":    billingItemClientName(app, m),
				"description":    m.GetString("description"),
				"due_date":       m.GetString("due_date"),
				"amount":         services.FormatCurrency(amount),
				"percentage":     services.MilestonePercentage(amount, fee),
				"invoice_status": m.GetString("invoice_status"),
			})
		}

		tasks, err := app.FindRecordsByFilter(
			"tasks",
			"project = {:projectId}",
			"due_date", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			log.Printf("project_view: could not load tasks for %s: %v", projectID, err)
			tasks = nil
		}

		taskItems := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			taskItems = append(taskItems, map[string]any{
				"id":          t.Id,
				"title":       t.GetString("title"),
				"description": t.GetString("description"),
				"due_date":    t.GetString("due_date"),
				"priority":    t.GetString("priority"),
				"status":      t.GetString("status"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                 project.Id,
			"title":              project.GetString("title"),
			"source_kind":        project.GetString("source_kind"),
			"source_id":          project.GetString("source_id"),
			"primary_clients":    project.GetStringSlice("primary_clients"),
			"secondary_clients":  project.GetStringSlice("secondary_clients"),
			"status":             project.GetString("status"),
			"start_date":         project.GetString("start_date"),
			"end_date":           project.GetString("end_date"),
			"payment_conditions": project.GetString("payment_conditions"),
			"fee":                services.FormatCurrency(fee),
			"budget_funding":     services.FormatCurrency(project.GetFloat("budget_funding")),
			"billing_schedule":   schedule,
			"schedule_status":    services.ScheduleStatus(amounts, fee),
			"tasks":              taskItems,
		})
	}
}

// billingItemClientName resolves the display name for a milestone's
// client relation. Display only — the id stays authoritative.
func billingItemClientName(app *pocketbase.PocketBase, item *core.Record) string {
	client, err := app.FindRecordById("customers", item.GetString("client"))
	if err != nil {
		return ""
	}
	return client.GetString("name")
}
