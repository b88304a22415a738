package analytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	xhttp "StockMetrics/pkg/http"
)

// remoteModel posts JSON to a model server. Ollama and OpenAI-compatible
// providers share it; headers go on every request.
type remoteModel struct {
	baseURL string
	headers map[string]string
	client  *xhttp.Client
}

func newRemoteModel(baseURL string, timeout time.Duration, headers map[string]string) *remoteModel {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &remoteModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (m *remoteModel) post(ctx context.Context, path string, payload, dest interface{}) error {
	if m == nil || m.baseURL == "" {
		return errors.New("model endpoint not configured")
	}
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range m.headers {
		headers[k] = v
	}
	err := m.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     m.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// postWithRetry retries transport failures, 429 and 5xx up to attempts times.
// Other 4xx answers are final.
func (m *remoteModel) postWithRetry(ctx context.Context, path string, payload, dest interface{}, attempts int) error {
	var err error
	for i := 1; ; i++ {
		if err = m.post(ctx, path, payload, dest); err == nil || i >= attempts || !transient(err) {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func transient(err error) bool {
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled)
}
