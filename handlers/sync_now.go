package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"firmdesk/services"
)

// HandleSyncNow triggers an immediate push of the local snapshot, outside
// the interval schedule. With no sync engine configured the endpoint
// reports that sync is disabled.
func HandleSyncNow(engine *services.SyncEngine) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if engine == nil {
			return e.JSON(http.StatusOK, map[string]any{"enabled": false})
		}

		if err := engine.PushIfChanged(e.Request.Context()); err != nil {
			log.Printf("sync_now: %v", err)
			return ErrorToast(e, http.StatusBadGateway, "Sync failed. Will retry on the next interval.")
		}

		SetToast(e, "success", "Synced")
		return e.JSON(http.StatusOK, map[string]any{"enabled": true})
	}
}
