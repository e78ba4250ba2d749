// Package notify sends fire-and-forget HTTP notifications when blocks keep
// failing. The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Barline/internal/bar"
)

// Notifier posts plain-text HTTP notifications for failing and recovering
// blocks.
type Notifier struct {
	url       string
	title     string
	onFailure bool
	threshold int
	onRecover bool
	client    *http.Client
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// "barline" is used instead. A block is reported once per failure streak,
// when its consecutive failures reach threshold (minimum 1).
func New(notifURL, title string, onFailure bool, threshold int, onRecover bool) *Notifier {
	if title == "" {
		title = "barline"
	}
	if threshold < 1 {
		threshold = 1
	}
	return &Notifier{
		url:       notifURL,
		title:     title,
		onFailure: onFailure,
		threshold: threshold,
		onRecover: onRecover,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook receives every bar.LogEntry drained from the events channel. It fires
// asynchronous POSTs for entries that match the configured flags. Recoveries
// are only reported for streaks that were long enough to be reported.
func (n *Notifier) Hook(entry bar.LogEntry) {
	switch entry.Kind {
	case bar.LogUpdateFailed:
		if n.onFailure && entry.Failures == n.threshold {
			go n.post(entry.Message)
		}
	case bar.LogRecovered:
		if n.onRecover && entry.Failures >= n.threshold {
			go n.post(entry.Message)
		}
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the bar.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
