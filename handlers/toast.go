package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// SetToast queues a toast notification for the client through the
// HX-Trigger response header. When the header already carries a JSON
// event object, the toast entry is merged into it instead of clobbering
// the other events. A short-lived flash cookie mirrors the payload so
// the toast also survives plain 302 redirects, where HTMX never sees
// the response headers.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{
		"message": message,
		"type":    toastType,
	}

	events := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			log.Printf("toast: discarding malformed HX-Trigger header: %v", err)
			events = map[string]any{}
		}
	}
	events["showToast"] = payload

	data, err := json.Marshal(events)
	if err != nil {
		log.Printf("toast: could not encode HX-Trigger header: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	cookieVal, err := json.Marshal(payload)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     "flash_toast",
		Value:    url.QueryEscape(string(cookieVal)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read client-side to render the toast
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast answers a failed request with an error toast. HX-Reswap is
// forced to none so the plain-text error body never replaces a fragment.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// ValidationFailed answers a blocked save: a warning toast plus the
// field -> message map for inline rendering. Nothing is applied.
func ValidationFailed(e *core.RequestEvent, errors map[string]string) error {
	SetToast(e, "warning", "Please fix the errors below")
	return e.JSON(http.StatusBadRequest, map[string]any{"errors": errors})
}
