package handlers

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"net/url"
	"testing"

	"firmdesk/services"
	"firmdesk/testhelpers"
)

func TestHandleProposalSave_DerivesFinancialAggregates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")

	financials, _ := json.Marshal(map[string]services.ClientFinancials{
		client.Id: {Grant: "480.000,00", Loan: "320.000,00", GrantFee: "6", LoanFee: "2,5"},
	})

	form := url.Values{}
	form.Set("title", "Biogas plant upgrade")
	form.Set("status", "Pending")
	form.Add("primary_clients", client.Id)
	form.Set("client_financials", string(financials))

	req := newFormRequest("/proposals", form)
	rec := httptest.NewRecorder()

	if err := HandleProposalSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}

	record, err := app.FindRecordById("proposals", body["id"])
	if err != nil {
		t.Fatalf("proposal not saved: %v", err)
	}

	if math.Abs(record.GetFloat("budget_funding")-800000) > 0.005 {
		t.Errorf("budget_funding = %v, want 800000", record.GetFloat("budget_funding"))
	}
	if math.Abs(record.GetFloat("fee")-36800) > 0.005 {
		t.Errorf("fee = %v, want 36800", record.GetFloat("fee"))
	}

	var stored map[string]services.ClientFinancials
	if err := record.UnmarshalJSONField("client_financials", &stored); err != nil {
		t.Fatalf("client_financials not stored as JSON: %v", err)
	}
	if stored[client.Id].TotalFunding != "800.000,00" {
		t.Errorf("total_funding = %q, want 800.000,00", stored[client.Id].TotalFunding)
	}
	if stored[client.Id].Fee != "36.800,00" {
		t.Errorf("fee = %q, want 36.800,00", stored[client.Id].Fee)
	}
}

func TestHandleProposalSave_MalformedFinancialsDegrade(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("title", "Broken payload")
	form.Set("status", "Pending")
	form.Set("client_financials", "{not json")

	req := newFormRequest("/proposals", form)
	rec := httptest.NewRecorder()

	if err := HandleProposalSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200 (malformed financials degrade, not fail)", rec.Code)
	}

	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	record, err := app.FindRecordById("proposals", body["id"])
	if err != nil {
		t.Fatalf("proposal not saved: %v", err)
	}
	if record.GetFloat("budget_funding") != 0 || record.GetFloat("fee") != 0 {
		t.Errorf("aggregates = (%v, %v), want zeros", record.GetFloat("budget_funding"), record.GetFloat("fee"))
	}
}

func TestHandleProposalSave_TitleRequired(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{}
	form.Set("status", "Pending")

	req := newFormRequest("/proposals", form)
	rec := httptest.NewRecorder()

	if err := HandleProposalSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProposalUpdate_GrantTriggersDerivation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestCustomer(t, app, "Acme")
	proposal := testhelpers.CreateTestProposal(t, app, "Pending proposal", "Pending", client.Id)

	form := url.Values{}
	form.Set("title", "Pending proposal")
	form.Set("status", "Granted")

	req := newFormRequest("/proposals/"+proposal.Id+"/save", form)
	req.SetPathValue("id", proposal.Id)
	rec := httptest.NewRecorder()

	if err := HandleProposalUpdate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	key := services.DeriveProjectKey(services.SourceRef{Kind: services.SourceProposal, ID: proposal.Id})
	projects, err := app.FindRecordsByFilter("projects", "source_key = {:key}", "", 1, 0,
		map[string]any{"key": key})
	if err != nil || len(projects) != 1 {
		t.Fatalf("granting did not materialize the project: %d (err %v)", len(projects), err)
	}
}
