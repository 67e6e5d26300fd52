package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// TrackedCollections is the central contract of what the reconciler
// synchronizes: every collection listed here travels in the snapshot, in
// dependency order (parents before the records that reference them).
// A component adding a new collection must register it here or it will
// never reach the remote store. sync_state is bookkeeping and excluded.
var TrackedCollections = []string{
	"customers",
	"calls",
	"proposals",
	"other_services",
	"projects",
	"billing_items",
	"tasks",
	"invoices",
	"company_settings",
}

// BuildSnapshot serializes every tracked collection into a key -> JSON
// document mapping. Collections with no records are omitted, matching the
// "absent keys" semantics the reconciler relies on.
func BuildSnapshot(app *pocketbase.PocketBase) (map[string]string, error) {
	snapshot := make(map[string]string, len(TrackedCollections))

	for _, name := range TrackedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return nil, fmt.Errorf("snapshot: could not find collection %q: %w", name, err)
		}

		records, err := app.FindRecordsByFilter(col, "id != ''", "id", 0, 0, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: could not load %q: %w", name, err)
		}
		if len(records) == 0 {
			continue
		}

		payload, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("snapshot: could not serialize %q: %w", name, err)
		}
		snapshot[name] = string(payload)
	}

	return snapshot, nil
}

// ApplySnapshot overwrites the local store from a remote snapshot: every
// tracked collection is replaced by the remote payload, and tracked
// collections absent from the payload are emptied locally. Corrupt
// payload entries degrade to an empty collection rather than aborting
// the whole apply.
func ApplySnapshot(app *pocketbase.PocketBase, data map[string]string) error {
	// Clear in reverse dependency order so relations go before their
	// targets, then insert in forward order.
	for i := len(TrackedCollections) - 1; i >= 0; i-- {
		if err := clearCollection(app, TrackedCollections[i]); err != nil {
			return err
		}
	}

	for _, name := range TrackedCollections {
		payload, ok := data[name]
		if !ok {
			continue
		}

		var rows []map[string]any
		if err := json.Unmarshal([]byte(payload), &rows); err != nil {
			log.Printf("snapshot: corrupt payload for %q, treating as empty: %v", name, err)
			continue
		}

		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("snapshot: could not find collection %q: %w", name, err)
		}

		for _, row := range rows {
			record := core.NewRecord(col)
			if id, ok := row["id"].(string); ok && id != "" {
				record.Id = id
			}
			record.Load(row)
			if err := app.Save(record); err != nil {
				log.Printf("snapshot: could not restore record in %q: %v", name, err)
			}
		}
	}

	return nil
}

// HashSnapshot produces a stable digest of a snapshot, used for
// change detection between push intervals. Map keys marshal in sorted
// order, so equal snapshots always hash equal.
func HashSnapshot(snapshot map[string]string) string {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func clearCollection(app *pocketbase.PocketBase, name string) error {
	col, err := app.FindCollectionByNameOrId(name)
	if err != nil {
		return fmt.Errorf("snapshot: could not find collection %q: %w", name, err)
	}

	records, err := app.FindAllRecords(col)
	if err != nil {
		return fmt.Errorf("snapshot: could not load %q for clearing: %w", name, err)
	}

	for _, record := range records {
		if err := app.Delete(record); err != nil {
			return fmt.Errorf("snapshot: could not clear record %s in %q: %w", record.Id, name, err)
		}
	}
	return nil
}
