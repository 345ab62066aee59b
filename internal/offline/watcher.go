package offline

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ConnectivityWatcher polls the API health endpoint.
type ConnectivityWatcher struct {
	healthURL string
	client    *http.Client
	interval  time.Duration
}

func NewConnectivityWatcher(baseURL string, client *http.Client, interval time.Duration) *ConnectivityWatcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &ConnectivityWatcher{
		healthURL: strings.TrimRight(baseURL, "/") + "/api/health",
		client:    client,
		interval:  interval,
	}
}

// Online reports whether the health endpoint currently answers 200.
func (w *ConnectivityWatcher) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Watch emits one signal per offline to online transition. The watcher starts
// out offline, so a reachable API produces a signal on the first poll.
// The channel is closed when ctx ends.
func (w *ConnectivityWatcher) Watch(ctx context.Context) <-chan struct{} {
	signals := make(chan struct{}, 1)

	go func() {
		defer close(signals)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		online := false
		for {
			now := w.Online(ctx)
			if now && !online {
				select {
				case signals <- struct{}{}:
				default:
				}
			}
			online = now

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return signals
}
