package model

// Bill is a congressional bill returned by the content API
type Bill struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	Type         string `json:"type"`
	Congress     int    `json:"congress"`
	Title        string `json:"title"`
	Summary      string `json:"summary,omitempty"`
	Sponsor      string `json:"sponsor,omitempty"`
	LatestAction string `json:"latest_action,omitempty"`
	ActionDate   string `json:"action_date,omitempty"`
}

// NewsItem is a news article returned by a search vendor
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

// SourceItem is the pipeline's view of one piece of source material,
// regardless of whether it came from the bill API or a news vendor.
type SourceItem struct {
	ID       string
	Title    string
	Body     string
	Citation string
}

// FromBill converts a bill to pipeline source material
func FromBill(b Bill) SourceItem {
	body := b.Summary
	if body == "" {
		body = b.LatestAction
	}
	return SourceItem{
		ID:       b.ID,
		Title:    b.Title,
		Body:     body,
		Citation: b.Type + " " + b.Number,
	}
}

// FromNewsItem converts a news item to pipeline source material
func FromNewsItem(n NewsItem) SourceItem {
	return SourceItem{
		ID:       n.ID,
		Title:    n.Title,
		Body:     n.Description,
		Citation: n.URL,
	}
}
