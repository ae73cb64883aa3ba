package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// OrderView is the subset of an order the utilities print.
type OrderView struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	Room        string    `json:"room"`
	Bed         string    `json:"bed"`
	Status      string    `json:"status"`
	Total       int64     `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProductionLine struct {
	MenuItemID string `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
}

// Client talks to a running medmeal service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) ListOrders(ctx context.Context, status string) ([]OrderView, error) {
	path := "/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var body struct {
		Orders []OrderView `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, path, &body); err != nil {
		return nil, err
	}
	return body.Orders, nil
}

func (c *Client) AdvanceOrder(ctx context.Context, id string) (OrderView, error) {
	var order OrderView
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/advance", &order)
	return order, err
}

func (c *Client) Production(ctx context.Context, status string) ([]ProductionLine, error) {
	path := "/stats/production"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var body struct {
		Lines []ProductionLine `json:"lines"`
	}
	if err := c.do(ctx, http.MethodGet, path, &body); err != nil {
		return nil, err
	}
	return body.Lines, nil
}

// do unwraps the service's {"data": ...} envelope into out.
func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &failure)
		if failure.Error == "" {
			failure.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, failure.Error)
	}

	envelope := struct {
		Data interface{} `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}
