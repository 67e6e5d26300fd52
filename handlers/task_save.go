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

// HandleTaskCreate adds a task to a project.
func HandleTaskCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			log.Printf("task_create: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		input := services.TaskInput{
			Title:    strings.TrimSpace(e.Request.FormValue("title")),
			DueDate:  strings.TrimSpace(e.Request.FormValue("due_date")),
			Priority: strings.TrimSpace(e.Request.FormValue("priority")),
			Status:   strings.TrimSpace(e.Request.FormValue("status")),
		}
		if input.Priority == "" {
			input.Priority = "Medium"
		}
		if input.Status == "" {
			input.Status = "Pending"
		}

		if errors := services.ValidateTask(input, collections.TaskPriorities, collections.TaskStatuses); len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		tasksCol, err := app.FindCollectionByNameOrId("tasks")
		if err != nil {
			log.Printf("task_create: could not find tasks collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(tasksCol)
		record.Set("project", projectID)
		record.Set("title", input.Title)
		record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		record.Set("priority", input.Priority)
		record.Set("status", input.Status)
		if input.DueDate != "" {
			dueDate, _ := time.Parse(services.DateLayout, input.DueDate)
			record.Set("due_date", dueDate)
		}

		if err := app.Save(record); err != nil {
			log.Printf("task_create: could not save task: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Task added")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}

// HandleTaskUpdate edits a task's fields and status.
func HandleTaskUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		taskID := e.Request.PathValue("id")

		record, err := app.FindRecordById("tasks", taskID)
		if err != nil || record.GetString("project") != projectID {
			log.Printf("task_update: could not find task %s on project %s: %v", taskID, projectID, err)
			return e.String(http.StatusNotFound, "Task not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		input := services.TaskInput{
			Title:    strings.TrimSpace(e.Request.FormValue("title")),
			DueDate:  strings.TrimSpace(e.Request.FormValue("due_date")),
			Priority: strings.TrimSpace(e.Request.FormValue("priority")),
			Status:   strings.TrimSpace(e.Request.FormValue("status")),
		}
		if input.Priority == "" {
			input.Priority = record.GetString("priority")
		}
		if input.Status == "" {
			input.Status = record.GetString("status")
		}

		if errors := services.ValidateTask(input, collections.TaskPriorities, collections.TaskStatuses); len(errors) > 0 {
			return ValidationFailed(e, errors)
		}

		record.Set("title", input.Title)
		if _, ok := e.Request.Form["description"]; ok {
			record.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		}
		record.Set("priority", input.Priority)
		record.Set("status", input.Status)
		if input.DueDate != "" {
			dueDate, _ := time.Parse(services.DateLayout, input.DueDate)
			record.Set("due_date", dueDate)
		}

		if err := app.Save(record); err != nil {
			log.Printf("task_update: could not save task %s: %v", taskID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Task updated")
		return e.JSON(http.StatusOK, map[string]string{"id": record.Id})
	}
}
