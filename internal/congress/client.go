package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hakivo/podcastd/internal/model"
)

// Client fetches bill data from the congressional content API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a congress client
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type billListResponse struct {
	Bills []struct {
		Congress int    `json:"congress"`
		Number   string `json:"number"`
		Type     string `json:"type"`
		Title    string `json:"title"`
		LatestAction struct {
			ActionDate string `json:"actionDate"`
			Text       string `json:"text"`
		} `json:"latestAction"`
		Sponsors []struct {
			FullName string `json:"fullName"`
		} `json:"sponsors"`
	} `json:"bills"`
}

// RecentBills returns the most recently updated bills, up to limit
func (c *Client) RecentBills(ctx context.Context, limit int) ([]model.Bill, error) {
	endpoint := fmt.Sprintf("%s/bill?format=json&sort=updateDate+desc&limit=%d&api_key=%s",
		c.baseURL, limit, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bill request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content API returned status %d", resp.StatusCode)
	}

	var decoded billListResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode bill response: %w", err)
	}

	bills := make([]model.Bill, 0, len(decoded.Bills))
	for _, b := range decoded.Bills {
		bill := model.Bill{
			ID:           billID(b.Congress, b.Type, b.Number),
			Number:       b.Number,
			Type:         b.Type,
			Congress:     b.Congress,
			Title:        b.Title,
			LatestAction: b.LatestAction.Text,
			ActionDate:   b.LatestAction.ActionDate,
		}
		if len(b.Sponsors) > 0 {
			bill.Sponsor = b.Sponsors[0].FullName
		}
		bills = append(bills, bill)
	}

	slog.Debug("Fetched recent bills", "count", len(bills))
	return bills, nil
}

func billID(congress int, billType, number string) string {
	return strings.ToLower(billType) + "-" + number + "-" + strconv.Itoa(congress)
}
