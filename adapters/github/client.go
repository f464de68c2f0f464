package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const (
	userAgent    = "devconnect-api"
	maxBodyBytes = 1 << 20
	maxFailures  = 5
)

// errClientStatus marks 4xx answers: the account does not exist or has nothing public.
// Those say nothing about GitHub's health and do not count against the breaker.
var errClientStatus = errors.New("github answered with a client error")

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	cb           *gobreaker.CircuitBreaker
}

func NewClient(cfg config.Config, log logger.Logger) *Client {
	st := gobreaker.Settings{
		Name:        "github",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errClientStatus)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.GitHub.BaseURL, "/"),
		clientID:     cfg.GitHub.ClientID,
		clientSecret: cfg.GitHub.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.GitHub.Timeout},
		cb:           gobreaker.NewCircuitBreaker(st),
	}
}

var _ service.RepoLookup = (*Client)(nil)

// RecentRepos returns the five oldest-created public repositories of username exactly
// as GitHub serialized them. Every failure is reported as service.ErrNoRepoProfile.
func (c *Client) RecentRepos(ctx context.Context, username string) (json.RawMessage, error) {
	body, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetch(ctx, username)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrNoRepoProfile, err)
	}
	return body.(json.RawMessage), nil
}

func (c *Client) fetch(ctx context.Context, username string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created:asc", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.clientID != "" && c.clientSecret != "" {
		req.SetBasicAuth(c.clientID, c.clientSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request github: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, fmt.Errorf("%w: status %d", errClientStatus, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read github body: %w", err)
	}
	if !json.Valid(raw) {
		return nil, errors.New("github returned invalid json")
	}
	return json.RawMessage(raw), nil
}
