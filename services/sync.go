package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// RemoteSnapshot is the payload exchanged with the remote app-data store.
// A nil Data means the remote side has never been written.
type RemoteSnapshot struct {
	Data      map[string]string `json:"data"`
	UpdatedAt string            `json:"updatedAt"`
}

type pushResponse struct {
	OK        bool   `json:"ok"`
	UpdatedAt string `json:"updatedAt"`
}

// SyncClient talks to the remote snapshot endpoint:
// GET /app-data and PUT /app-data, bearer-authenticated.
type SyncClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewSyncClient builds a client with a bounded request timeout.
func NewSyncClient(baseURL, token string) *SyncClient {
	return &SyncClient{
		BaseURL: baseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves the current remote snapshot.
func (c *SyncClient) Fetch(ctx context.Context) (*RemoteSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/app-data", nil)
	if err != nil {
		return nil, fmt.Errorf("sync: build fetch request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync: fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sync: fetch snapshot: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sync: read fetch response: %w", err)
	}

	var snapshot RemoteSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("sync: decode fetch response: %w", err)
	}
	return &snapshot, nil
}

// Push stores a snapshot remotely. The server stamps and returns its own
// updatedAt.
func (c *SyncClient) Push(ctx context.Context, data map[string]string) (string, error) {
	payload, err := json.Marshal(map[string]any{"data": data})
	if err != nil {
		return "", fmt.Errorf("sync: encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+"/app-data", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("sync: build push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("sync: push snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sync: push snapshot: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("sync: read push response: %w", err)
	}

	var result pushResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("sync: decode push response: %w", err)
	}
	if !result.OK {
		return "", fmt.Errorf("sync: remote rejected push")
	}
	return result.UpdatedAt, nil
}

// SyncEngine reconciles the local store with the remote snapshot using
// whole-snapshot last-write-wins. One engine instance runs per process;
// pushes are mutually exclusived by an in-flight guard (no queueing — the
// next interval tick picks up the latest state).
type SyncEngine struct {
	app      *pocketbase.PocketBase
	client   *SyncClient
	inFlight atomic.Bool
}

// NewSyncEngine wires the engine to the app store and remote client.
func NewSyncEngine(app *pocketbase.PocketBase, client *SyncClient) *SyncEngine {
	return &SyncEngine{app: app, client: client}
}

// ResolveOnStart runs the session-start reconciliation:
//
//   - remote empty, local has data  -> push local, stamp now
//   - remote has data and local is empty, unstamped, or not strictly
//     newer                         -> overwrite local from remote
//     (tracked collections absent remotely are emptied locally)
//   - local strictly newer          -> push local, stamp now
func (s *SyncEngine) ResolveOnStart(ctx context.Context) error {
	remote, err := s.client.Fetch(ctx)
	if err != nil {
		return err
	}

	storeMu.Lock()
	defer storeMu.Unlock()

	local, err := BuildSnapshot(s.app)
	if err != nil {
		return err
	}

	if len(remote.Data) == 0 {
		if len(local) > 0 {
			return s.pushLocked(ctx, local)
		}
		return nil
	}

	localAt := s.localUpdatedAt()
	remoteAt, err := time.Parse(time.RFC3339, remote.UpdatedAt)
	if err != nil {
		log.Printf("sync: unparseable remote updatedAt %q, treating remote as newer", remote.UpdatedAt)
		remoteAt = time.Now().UTC()
	}

	if len(local) == 0 || localAt.IsZero() || !localAt.After(remoteAt) {
		if err := ApplySnapshot(s.app, remote.Data); err != nil {
			return err
		}
		// Hash the locally rebuilt snapshot, not the remote payload: the
		// local serialization differs (autodate stamps, field order), and
		// recording the remote hash would make the next interval tick push
		// equivalent content right back.
		rebuilt, err := BuildSnapshot(s.app)
		if err != nil {
			return err
		}
		s.saveState(remoteAt, HashSnapshot(rebuilt))
		log.Printf("sync: adopted remote snapshot from %s", remote.UpdatedAt)
		return nil
	}

	return s.pushLocked(ctx, local)
}

// PushIfChanged is the interval tick: build the current snapshot and push
// it when its serialized form differs from the last-pushed one. A push
// already in progress suppresses this tick entirely.
func (s *SyncEngine) PushIfChanged(ctx context.Context) error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer s.inFlight.Store(false)

	storeMu.Lock()
	local, err := BuildSnapshot(s.app)
	if err != nil {
		storeMu.Unlock()
		return err
	}

	hash := HashSnapshot(local)
	if hash == s.lastPushedHash() {
		storeMu.Unlock()
		return nil
	}

	now := time.Now().UTC()
	s.saveState(now, "")
	storeMu.Unlock()

	if _, err := s.client.Push(ctx, local); err != nil {
		// Abandon this cycle; the next tick retries because the pushed
		// hash was not recorded.
		return err
	}

	storeMu.Lock()
	s.saveState(now, hash)
	storeMu.Unlock()
	return nil
}

func (s *SyncEngine) pushLocked(ctx context.Context, local map[string]string) error {
	now := time.Now().UTC()
	if _, err := s.client.Push(ctx, local); err != nil {
		return err
	}
	s.saveState(now, HashSnapshot(local))
	log.Printf("sync: pushed local snapshot (%d keys)", len(local))
	return nil
}

// syncStateRecord loads or creates the singleton sync_state record.
func (s *SyncEngine) syncStateRecord() *core.Record {
	col, err := s.app.FindCollectionByNameOrId("sync_state")
	if err != nil {
		log.Printf("sync: sync_state collection missing: %v", err)
		return nil
	}

	records, err := s.app.FindAllRecords(col)
	if err == nil && len(records) > 0 {
		return records[0]
	}
	return core.NewRecord(col)
}

func (s *SyncEngine) localUpdatedAt() time.Time {
	record := s.syncStateRecord()
	if record == nil {
		return time.Time{}
	}
	return record.GetDateTime("updated_at").Time()
}

func (s *SyncEngine) lastPushedHash() string {
	record := s.syncStateRecord()
	if record == nil {
		return ""
	}
	return record.GetString("last_pushed_hash")
}

func (s *SyncEngine) saveState(updatedAt time.Time, pushedHash string) {
	record := s.syncStateRecord()
	if record == nil {
		return
	}
	record.Set("updated_at", updatedAt)
	record.Set("last_pushed_hash", pushedHash)
	if err := s.app.Save(record); err != nil {
		log.Printf("sync: could not persist sync state: %v", err)
	}
}
