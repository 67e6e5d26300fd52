package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase"

	"firmdesk/services"
	"firmdesk/testhelpers"
)

func postBillingStatus(t *testing.T, app *pocketbase.PocketBase, billingID string, form url.Values) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := newFormRequest("/billing/"+billingID+"/status", form)
	req.SetPathValue("id", billingID)
	rec := httptest.NewRecorder()

	if err := HandleBillingStatus(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (body %q)", err, rec.Body.String())
	}
	return rec, body
}

func TestHandleBillingCreate_Valid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Billing project", 10000, client.Id)

	form := url.Values{}
	form.Set("client", client.Id)
	form.Set("description", "First payment")
	form.Set("amount", "2.500,00")
	form.Set("due_date", "15/03/2026")

	req := newFormRequest("/projects/"+project.Id+"/billing", form)
	req.SetPathValue("projectId", project.Id)
	rec := httptest.NewRecorder()

	if err := HandleBillingCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["percentage"] != "25%" {
		t.Errorf("percentage = %q, want 25%%", body["percentage"])
	}

	record, err := app.FindRecordById("billing_items", body["id"])
	if err != nil {
		t.Fatalf("milestone not saved: %v", err)
	}
	if record.GetFloat("amount") != 2500 {
		t.Errorf("amount = %v, want 2500", record.GetFloat("amount"))
	}
	if record.GetString("invoice_status") != services.BillingPending {
		t.Errorf("invoice_status = %q, want Invoice_pending", record.GetString("invoice_status"))
	}
}

func TestHandleBillingCreate_BlockedOnValidation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	outsider := testhelpers.CreateTestCustomer(t, app, "Outsider")
	project := testhelpers.CreateTestProject(t, app, "Billing project", 10000, client.Id)

	tests := []struct {
		name      string
		mutate    func(url.Values)
		wantField string
	}{
		{"client not on project", func(f url.Values) { f.Set("client", outsider.Id) }, "client"},
		{"negative amount", func(f url.Values) { f.Set("amount", "-100,00") }, "amount"},
		{"bad date", func(f url.Values) { f.Set("due_date", "2026-03-15") }, "due_date"},
		{"missing description", func(f url.Values) { f.Del("description") }, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("client", client.Id)
			form.Set("description", "Payment")
			form.Set("amount", "1.000,00")
			form.Set("due_date", "15/03/2026")
			tt.mutate(form)

			req := newFormRequest("/projects/"+project.Id+"/billing", form)
			req.SetPathValue("projectId", project.Id)
			rec := httptest.NewRecorder()

			if err := HandleBillingCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != 400 {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var body struct {
				Errors map[string]string `json:"errors"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if _, ok := body.Errors[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, body.Errors)
			}
		})
	}

	// Nothing may be saved while errors remain.
	items, err := app.FindAllRecords("billing_items")
	if err != nil {
		t.Fatalf("failed to load billing items: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("billing items = %d, want 0", len(items))
	}
}

func TestHandleBillingStatus_RegressionIgnored(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Billing project", 10000, client.Id)
	billing := testhelpers.CreateTestBillingItem(t, app, project.Id, client.Id, 2500)

	billing.Set("invoice_status", services.BillingSent)
	if err := app.Save(billing); err != nil {
		t.Fatalf("failed to mark sent: %v", err)
	}

	form := url.Values{}
	form.Set("status", services.BillingPending)
	rec, body := postBillingStatus(t, app, billing.Id, form)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["invoice_status"] != services.BillingSent {
		t.Errorf("invoice_status = %v, want unchanged Invoice_sent", body["invoice_status"])
	}

	reloaded, _ := app.FindRecordById("billing_items", billing.Id)
	if reloaded.GetString("invoice_status") != services.BillingSent {
		t.Errorf("store was mutated on a rejected transition")
	}
}

func TestHandleBillingStatus_PaidRequiresConfirmation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Billing project", 10000, client.Id)
	billing := testhelpers.CreateTestBillingItem(t, app, project.Id, client.Id, 2500)

	// First request: nothing applies, confirmation is demanded.
	form := url.Values{}
	form.Set("status", services.BillingPaid)
	_, body := postBillingStatus(t, app, billing.Id, form)

	if body["confirmation_required"] != true {
		t.Fatalf("expected confirmation_required, got %v", body)
	}
	reloaded, _ := app.FindRecordById("billing_items", billing.Id)
	if reloaded.GetString("invoice_status") != services.BillingPending {
		t.Fatalf("status changed before confirmation: %q", reloaded.GetString("invoice_status"))
	}

	// Second request carries the confirmation and applies.
	form.Set("confirm", "true")
	_, body = postBillingStatus(t, app, billing.Id, form)

	if body["invoice_status"] != services.BillingPaid {
		t.Errorf("invoice_status = %v, want Invoice_paid", body["invoice_status"])
	}
	reloaded, _ = app.FindRecordById("billing_items", billing.Id)
	if reloaded.GetString("invoice_status") != services.BillingPaid {
		t.Errorf("confirmed transition not persisted")
	}
}

func TestHandleBillingStatus_ForwardTransition(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	project := testhelpers.CreateTestProject(t, app, "Billing project", 10000, client.Id)
	billing := testhelpers.CreateTestBillingItem(t, app, project.Id, client.Id, 2500)

	form := url.Values{}
	form.Set("status", services.BillingSent)
	_, body := postBillingStatus(t, app, billing.Id, form)

	if body["invoice_status"] != services.BillingSent {
		t.Errorf("invoice_status = %v, want Invoice_sent", body["invoice_status"])
	}
}
