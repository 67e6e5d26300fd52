package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"firmdesk/testhelpers"
)

func TestHandleTaskCreate_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Task project", 10000, client.Id)

	form := url.Values{}
	form.Set("title", "Prepare kickoff deck")

	req := newFormRequest("/projects/"+project.Id+"/tasks", form)
	req.SetPathValue("projectId", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleTaskCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}

	record, err := app.FindRecordById("tasks", body["id"])
	if err != nil {
		t.Fatalf("task not saved: %v", err)
	}
	if record.GetString("priority") != "Medium" {
		t.Errorf("priority = %q, want Medium default", record.GetString("priority"))
	}
	if record.GetString("status") != "Pending" {
		t.Errorf("status = %q, want Pending default", record.GetString("status"))
	}
}

func TestHandleTaskCreate_BadDueDate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Task project", 10000, client.Id)

	form := url.Values{}
	form.Set("title", "Prepare kickoff deck")
	form.Set("due_date", "2026-03-15")

	req := newFormRequest("/projects/"+project.Id+"/tasks", form)
	req.SetPathValue("projectId", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleTaskCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleTaskUpdate_WrongProjectRejected(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Task project", 10000, client.Id)
	other := testhelpers.CreateTestProject(t, app, "Other project", 5000, client.Id)
	task := testhelpers.CreateTestTask(t, app, project.Id, "Prepare kickoff deck")

	form := url.Values{}
	form.Set("title", "Hijacked")

	req := newFormRequest("/projects/"+other.Id+"/tasks/"+task.Id+"/save", form)
	req.SetPathValue("projectId", other.Id)
	req.SetPathValue("id", task.Id)
	rec := httptest.NewRecorder()

	if err := HandleTaskUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	reloaded, _ := app.FindRecordById("tasks", task.Id)
	if reloaded.GetString("title") != "Prepare kickoff deck" {
		t.Errorf("task was edited through the wrong project")
	}
}

func TestHandleProjectUpdate_EditableFieldsOnly(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Editable", 10000, client.Id)

	form := url.Values{}
	form.Set("status", "Ended")
	form.Set("start_date", "01/02/2026")
	form.Set("payment_conditions", "50% upfront, 50% on delivery")

	req := newFormRequest("/projects/"+project.Id+"/save", form)
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	reloaded, _ := app.FindRecordById("projects", project.Id)
	if reloaded.GetString("status") != "Ended" {
		t.Errorf("status = %q", reloaded.GetString("status"))
	}
	if reloaded.GetString("payment_conditions") != "50% upfront, 50% on delivery" {
		t.Errorf("payment_conditions = %q", reloaded.GetString("payment_conditions"))
	}
	if reloaded.GetFloat("fee") != 10000 {
		t.Errorf("fee = %v, derived snapshot must not change", reloaded.GetFloat("fee"))
	}
}

func TestHandleProjectUpdate_InvalidStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Editable", 10000, client.Id)

	form := url.Values{}
	form.Set("status", "Vaporized")

	req := newFormRequest("/projects/"+project.Id+"/save", form)
	req.SetPathValue("id", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleProjectUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
