package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrProfileNotFound = errors.New("no github profile found")

// Client lists a user's five most recent public repositories.
type Client interface {
	ListRepos(ctx context.Context, username string) ([]string, error)
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *log.Logger
}

type repoItem struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
}

func NewClient(baseURL, token string, logger *log.Logger) Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *httpClient) ListRepos(ctx context.Context, username string) ([]string, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("nil github client")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrProfileNotFound
	}

	endpoint := fmt.Sprintf(
		"%s/users/%s/repos?per_page=5&sort=created:asc",
		c.baseURL, url.PathEscape(username),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "devconnect")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if c.logger != nil {
			c.logger.Printf("[GitHub] ListRepos username=%s status=%d", username, resp.StatusCode)
		}
		return nil, ErrProfileNotFound
	}

	var items []repoItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, shortName(it, username))
	}
	return names, nil
}

// shortName strips the "<username>/" prefix from full_name, falling
// back to the bare name field.
func shortName(it repoItem, username string) string {
	prefix := username + "/"
	if strings.HasPrefix(it.FullName, prefix) {
		return strings.TrimPrefix(it.FullName, prefix)
	}
	if it.Name != "" {
		return it.Name
	}
	return it.FullName
}

var _ Client = (*httpClient)(nil)
