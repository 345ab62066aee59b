package offline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/civicconnect-api/internal/constants"
)

var (
	ErrInvalidPayload = errors.New("payload must be a JSON object")
	ErrMissingToken   = errors.New("token is required")
)

// FlushResult counts the outcome of one pass over the queue.
type FlushResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// Queue delivers pending complaints to <baseURL>/api/complaints.
type Queue struct {
	store   *Store
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// NewQueue creates a Queue. A nil client uses http.DefaultClient.
func NewQueue(store *Store, baseURL string, client *http.Client) *Queue {
	if client == nil {
		client = http.DefaultClient
	}
	return &Queue{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
}

// Enqueue stores payload for later delivery under a fresh idempotency key.
func (q *Queue) Enqueue(payload []byte, token string) (*PendingComplaint, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, ErrInvalidPayload
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	pending := &PendingComplaint{
		ID:             uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		Payload:        payload,
		Token:          token,
		CreatedAt:      q.now(),
	}
	if err := q.store.Add(pending); err != nil {
		return nil, fmt.Errorf("failed to enqueue complaint: %w", err)
	}
	return pending, nil
}

func (q *Queue) List() ([]PendingComplaint, error) {
	pending, err := q.store.Pending()
	if err != nil {
		return nil, fmt.Errorf("failed to list pending complaints: %w", err)
	}
	return pending, nil
}

// Flush sends every pending complaint once, oldest first. Delivered records
// are removed; failed ones stay queued with their attempt count raised.
// Only store errors and context cancellation are returned.
func (q *Queue) Flush(ctx context.Context) (FlushResult, error) {
	var result FlushResult

	pending, err := q.List()
	if err != nil {
		return result, err
	}

	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if sendErr := q.send(ctx, p); sendErr != nil {
			result.Failed++
			if err := q.store.RecordFailure(p.ID, sendErr.Error()); err != nil {
				return result, fmt.Errorf("failed to record delivery failure: %w", err)
			}
			continue
		}

		if err := q.store.Delete(p.ID); err != nil {
			return result, fmt.Errorf("failed to remove delivered complaint: %w", err)
		}
		result.Synced++
	}

	return result, nil
}

// Run flushes the queue each time signals fires, until ctx ends or signals closes.
func (q *Queue) Run(ctx context.Context, signals <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			result, err := q.Flush(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("offline: flush failed: %v", err)
				continue
			}
			if result.Synced > 0 || result.Failed > 0 {
				log.Printf("offline: synced %d, failed %d", result.Synced, result.Failed)
			}
		}
	}
}

func (q *Queue) send(ctx context.Context, p PendingComplaint) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.baseURL+"/api/complaints", bytes.NewReader(p.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set(constants.HeaderIdempotencyKey, p.IdempotencyKey)

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("server responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
