package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// PolicyDeleteMessage is shown whenever a delete is requested on an
// append-only entity.
const PolicyDeleteMessage = "Deletion is disabled to preserve history"

// HandlePolicyDelete refuses delete requests on append-only entities
// (customers, calls, proposals, services, projects, billing milestones,
// tasks). The route exists so the UI gets a clear notice, but the handler
// never touches the store — the persisted collection stays byte-for-byte
// unchanged.
func HandlePolicyDelete(app *pocketbase.PocketBase, entity string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		log.Printf("%s_delete: refused for %q (append-only policy)", entity, e.Request.PathValue("id"))
		SetToast(e, "warning", PolicyDeleteMessage)
		e.Response.Header().Set("HX-Reswap", "none")
		return e.JSON(http.StatusForbidden, map[string]string{
			"message": PolicyDeleteMessage,
		})
	}
}
