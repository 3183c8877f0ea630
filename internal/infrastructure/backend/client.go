package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cabinet-portal/config"
	"cabinet-portal/internal/domain/repository"
	"cabinet-portal/pkg/requestid"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// Client talks to the cabinet REST backend. It implements the auth, user,
// rendez-vous and stats repositories.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

var (
	_ repository.AuthRepository       = (*Client)(nil)
	_ repository.UserRepository       = (*Client)(nil)
	_ repository.RendezVousRepository = (*Client)(nil)
	_ repository.StatsRepository      = (*Client)(nil)
)

func NewClient(cfg config.BackendConfig, log *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// do sends one request and returns the raw response body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestid.From(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"request_id": requestid.From(ctx),
			"method":     method,
			"path":       path,
		}).Warnf("Backend request failed: %+v", err)
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, ctx.Err())
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: %w", repository.ErrUnavailable, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", repository.ErrUnavailable, err)
	}

	entry := c.log.WithFields(logrus.Fields{
		"request_id": requestid.From(ctx),
		"method":     method,
		"path":       path,
		"status":     resp.StatusCode,
		"latency":    time.Since(start).String(),
	})

	if resp.StatusCode >= http.StatusBadRequest {
		statusErr := newStatusError(resp.StatusCode, raw)
		entry.Warnf("Backend error response: %s", statusErr.Error())
		return nil, statusErr
	}

	entry.Debug("Backend request completed")
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func escape(id string) string {
	return url.PathEscape(id)
}
