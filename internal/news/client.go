package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/oliveagle/jsonpath"

	"github.com/hakivo/podcastd/internal/model"
)

// FieldMap names the JSONPath expressions used to pull news items out of
// a search vendor's response. Vendors shape their payloads differently;
// the mapping lets one client serve any of them.
type FieldMap struct {
	Items       string // path to the result array
	Title       string // paths below are relative to one item
	URL         string
	Description string
	Source      string
	PublishedAt string
}

// BraveFieldMap matches the Brave Search news response shape
var BraveFieldMap = FieldMap{
	Items:       "$.results",
	Title:       "$.title",
	URL:         "$.url",
	Description: "$.description",
	Source:      "$.meta_url.hostname",
	PublishedAt: "$.age",
}

// Client searches a news vendor for civic/political coverage
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	fields     FieldMap
}

// NewClient creates a news client with the given field mapping
func NewClient(httpClient *http.Client, baseURL, apiKey string, fields FieldMap) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		fields:     fields,
	}
}

// Search returns news items matching the topics, up to limit
func (c *Client) Search(ctx context.Context, topics []string, limit int) ([]model.NewsItem, error) {
	query := "congress legislation"
	if len(topics) > 0 {
		query = strings.Join(topics, " ")
	}

	endpoint := fmt.Sprintf("%s/news/search?q=%s&count=%d",
		c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news response: %w", err)
	}

	return c.Parse(body)
}

// Parse extracts news items from a raw vendor response using the client's
// field mapping.
func (c *Client) Parse(body []byte) ([]model.NewsItem, error) {
	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse news response: %w", err)
	}

	raw, err := jsonpath.JsonPathLookup(data, c.fields.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to locate news items at %s: %w", c.fields.Items, err)
	}

	entries, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("news items path %s did not yield an array", c.fields.Items)
	}

	items := make([]model.NewsItem, 0, len(entries))
	for i, entry := range entries {
		item := model.NewsItem{
			ID:          fmt.Sprintf("news-%d", i),
			Title:       c.extract(entry, c.fields.Title),
			URL:         c.extract(entry, c.fields.URL),
			Description: c.extract(entry, c.fields.Description),
			Source:      c.extract(entry, c.fields.Source),
			PublishedAt: c.extract(entry, c.fields.PublishedAt),
		}
		if item.Title == "" || item.URL == "" {
			slog.Debug("Skipping news item with missing fields", "index", i)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (c *Client) extract(entry interface{}, path string) string {
	if path == "" {
		return ""
	}
	val, err := jsonpath.JsonPathLookup(entry, path)
	if err != nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}
