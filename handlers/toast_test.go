package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetToast_MergesExistingTriggerEvents(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	e.Response.Header().Set("HX-Trigger", `{"refreshList":true}`)
	SetToast(e, "success", "Saved")

	var events map[string]any
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger is not JSON: %v", err)
	}
	if events["refreshList"] != true {
		t.Errorf("existing event was dropped: %v", events)
	}
	toast, ok := events["showToast"].(map[string]any)
	if !ok {
		t.Fatalf("showToast missing: %v", events)
	}
	if toast["message"] != "Saved" || toast["type"] != "success" {
		t.Errorf("toast payload = %v", toast)
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "flash_toast" {
			found = true
		}
	}
	if !found {
		t.Error("flash_toast cookie was not set")
	}
}

func TestSetToast_MalformedExistingTriggerOverwritten(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	e.Response.Header().Set("HX-Trigger", "{broken")
	SetToast(e, "warning", "Careful")

	var events map[string]any
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &events); err != nil {
		t.Fatalf("HX-Trigger is not JSON after overwrite: %v", err)
	}
	if _, ok := events["showToast"]; !ok {
		t.Errorf("showToast missing: %v", events)
	}
}

func TestErrorToast_SuppressesSwap(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	if err := ErrorToast(e, http.StatusBadRequest, "Invalid form data"); err != nil {
		t.Fatalf("ErrorToast() error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Errorf("HX-Reswap = %q, want none", rec.Header().Get("HX-Reswap"))
	}
}
