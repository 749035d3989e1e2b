package meli

import (
	"encoding/json"
	"fmt"
)

// Item is the subset of a marketplace item payload the catalog uses.
type Item struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Price      *float64    `json:"price"`
	CurrencyID string      `json:"currency_id"`
	Permalink  string      `json:"permalink"`
	Pictures   []Picture   `json:"pictures"`
	Attributes []Attribute `json:"attributes"`
}

type Picture struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// Attribute is one entry of the free-form attribute bag, e.g.
// {"id":"KILOMETERS","name":"Kilómetros","value_name":"45.000 km"}.
type Attribute struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ValueName string `json:"value_name"`
}

type searchResponse struct {
	Results []string `json:"results"`
	Paging  struct {
		Total  int `json:"total"`
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
	} `json:"paging"`
}

// itemEnvelope is the multi-get wrapper: {"code":200,"body":{...}}.
type itemEnvelope struct {
	Code int             `json:"code"`
	Body json.RawMessage `json:"body"`
}

// UpstreamError reports a non-success response from the marketplace API.
type UpstreamError struct {
	Status int
	URL    string
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("marketplace %s: status %d: %s", e.URL, e.Status, e.Body)
}

// decodeItems accepts both wrapped and bare elements and skips anything
// without a usable item body.
func decodeItems(data []byte) ([]Item, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("unmarshal items response: %w", err)
	}

	items := make([]Item, 0, len(elems))
	for _, raw := range elems {
		payload := []byte(raw)

		var env itemEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && len(env.Body) > 0 {
			if env.Code >= 400 || string(env.Body) == "null" {
				continue
			}
			payload = env.Body
		}

		var item Item
		if err := json.Unmarshal(payload, &item); err != nil {
			continue
		}
		if item.ID == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
