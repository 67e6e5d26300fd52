package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"firmdesk/testhelpers"
)

func TestHandlePolicyDelete_NeverTouchesTheStore(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Keep me", 10000, client.Id)
	billing := testhelpers.CreateTestBillingItem(t, app, project.Id, client.Id, 2500)
	task := testhelpers.CreateTestTask(t, app, project.Id, "Keep this task")

	targets := []struct {
		entity string
		id     string
		table  string
	}{
		{"customer", client.Id, "customers"},
		{"project", project.Id, "projects"},
		{"billing milestone", billing.Id, "billing_items"},
		{"task", task.Id, "tasks"},
	}

	for _, tgt := range targets {
		t.Run(tgt.entity, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/"+tgt.table+"/"+tgt.id, nil)
			req.SetPathValue("id", tgt.id)
			rec := httptest.NewRecorder()

			if err := HandlePolicyDelete(app, tgt.entity)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["message"] != PolicyDeleteMessage {
				t.Errorf("message = %q, want %q", body["message"], PolicyDeleteMessage)
			}

			if rec.Header().Get("HX-Reswap") != "none" {
				t.Errorf("HX-Reswap = %q, want none", rec.Header().Get("HX-Reswap"))
			}

			if _, err := app.FindRecordById(tgt.table, tgt.id); err != nil {
				t.Errorf("record %s/%s was deleted: %v", tgt.table, tgt.id, err)
			}
		})
	}
}
