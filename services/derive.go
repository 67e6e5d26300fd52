package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// storeMu serializes every read-compute-write cycle against the store.
// Both the derivation engine and the snapshot reconciler take it, so a
// reconciler overwrite can never land between a derivation read and its
// write.
var storeMu sync.Mutex

// SourceKind discriminates what a project was derived from.
type SourceKind string

const (
	SourceProposal SourceKind = "proposal"
	SourceService  SourceKind = "service"
)

// SourceRef identifies a grantable source entity.
type SourceRef struct {
	Kind SourceKind
	ID   string
}

// DeriveProjectKey computes the deterministic project key for a source.
// The key is a pure function of the source identity, which is what makes
// derivation idempotent: existence is checked by key before insertion.
func DeriveProjectKey(ref SourceRef) string {
	return fmt.Sprintf("%s-%s", ref.Kind, ref.ID)
}

// DeriveProjects scans proposals and other services for "Granted" status
// and materializes a project for each one exactly once. Existing projects
// are never touched: a project is a one-shot snapshot of its source at
// grant time, edited independently afterwards. Safe to call on every
// startup and on every poll tick. Returns the number of projects created.
func DeriveProjects(app *pocketbase.PocketBase) (int, error) {
	storeMu.Lock()
	defer storeMu.Unlock()

	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return 0, fmt.Errorf("derive: could not find projects collection: %w", err)
	}

	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return 0, fmt.Errorf("derive: could not load existing projects: %w", err)
	}

	existingKeys := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingKeys[p.GetString("source_key")] = true
	}

	created := 0
	now := time.Now().UTC()

	grantedProposals, err := app.FindRecordsByFilter(
		"proposals",
		"status = 'Granted'",
		"", 0, 0, nil,
	)
	if err != nil {
		log.Printf("derive: could not query granted proposals: %v", err)
		grantedProposals = nil
	}

	for _, proposal := range grantedProposals {
		key := DeriveProjectKey(SourceRef{Kind: SourceProposal, ID: proposal.Id})
		if existingKeys[key] {
			continue
		}

		record := core.NewRecord(projectsCol)
		record.Set("title", proposal.GetString("title"))
		record.Set("source_kind", string(SourceProposal))
		record.Set("source_id", proposal.Id)
		record.Set("source_key", key)
		record.Set("primary_clients", proposal.GetStringSlice("primary_clients"))
		record.Set("secondary_clients", proposal.GetStringSlice("secondary_clients"))
		record.Set("fee", proposal.GetFloat("fee"))
		record.Set("budget_funding", proposal.GetFloat("budget_funding"))
		record.Set("status", "Ongoing")
		record.Set("start_date", now)

		if err := app.Save(record); err != nil {
			log.Printf("derive: failed to create project for proposal %s: %v", proposal.Id, err)
			continue
		}

		existingKeys[key] = true
		created++
		log.Printf("derive: proposal %q (%s) -> project %s\n", proposal.GetString("title"), proposal.Id, record.Id)
	}

	grantedServices, err := app.FindRecordsByFilter(
		"other_services",
		"status = 'Granted'",
		"", 0, 0, nil,
	)
	if err != nil {
		log.Printf("derive: could not query granted services: %v", err)
		grantedServices = nil
	}

	for _, service := range grantedServices {
		key := DeriveProjectKey(SourceRef{Kind: SourceService, ID: service.Id})
		if existingKeys[key] {
			continue
		}

		record := core.NewRecord(projectsCol)
		record.Set("title", service.GetString("title"))
		record.Set("source_kind", string(SourceService))
		record.Set("source_id", service.Id)
		record.Set("source_key", key)

		var primaries []string
		if id := service.GetString("primary_client"); id != "" {
			primaries = append(primaries, id)
		}
		var secondaries []string
		if id := service.GetString("secondary_client"); id != "" {
			secondaries = append(secondaries, id)
		}
		record.Set("primary_clients", primaries)
		record.Set("secondary_clients", secondaries)
		record.Set("fee", service.GetFloat("fee"))
		record.Set("budget_funding", 0)
		record.Set("status", "Ongoing")
		record.Set("start_date", now)

		if err := app.Save(record); err != nil {
			log.Printf("derive: failed to create project for service %s: %v", service.Id, err)
			continue
		}

		existingKeys[key] = true
		created++
		log.Printf("derive: service %q (%s) -> project %s\n", service.GetString("title"), service.Id, record.Id)
	}

	return created, nil
}
