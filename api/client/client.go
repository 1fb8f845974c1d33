package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aouyang1/climbcraft/api/models"
	"github.com/aouyang1/climbcraft/store"
)

// ErrAlreadyRegistered is returned when the hold is already in the registry.
var ErrAlreadyRegistered = errors.New("hold already registered")

// CatalogClient talks to the hold registry of a running web server.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (cc *CatalogClient) do(req *http.Request, out any) error {
	resp, err := cc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		return ErrAlreadyRegistered
	}
	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RegisterHold adds a hold image that already exists under the holds directory.
func (cc *CatalogClient) RegisterHold(group, name string) error {
	jsonData, err := json.Marshal(models.RegisterHoldRequest{
		HoldName:  name,
		GroupName: group,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, cc.baseURL+"/holds/register", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var registerResp models.RegisterHoldResponse
	if err := cc.do(req, &registerResp); err != nil {
		return err
	}

	slog.Info("hold registered successfully", "name", name, "group", group, "order", registerResp.Order)
	return nil
}

// RegisterHoldIfNotExists registers a hold only if it doesn't already exist
func (cc *CatalogClient) RegisterHoldIfNotExists(group, name string) error {
	err := cc.RegisterHold(group, name)
	if errors.Is(err, ErrAlreadyRegistered) {
		slog.Debug("hold already registered, skipping", "name", name, "group", group)
		return nil
	}
	return err
}

// GetHolds pages through the registry. An empty group lists every group.
func (cc *CatalogClient) GetHolds(group string) ([]store.Hold, error) {
	var allHolds []store.Hold
	page := 1
	limit := 100

	for {
		q := url.Values{}
		q.Set("group", group)
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(limit))

		req, err := http.NewRequest(http.MethodGet, cc.baseURL+"/holds?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		var listResp models.HoldListResponse
		if err := cc.do(req, &listResp); err != nil {
			return nil, err
		}

		allHolds = append(allHolds, listResp.Holds...)

		if len(listResp.Holds) < limit || len(allHolds) >= listResp.Total {
			break
		}
		page++
	}

	return allHolds, nil
}

// DeleteHold removes a hold from the registry. Deleting an unknown hold is not an error.
func (cc *CatalogClient) DeleteHold(name, group string) error {
	deleteURL := fmt.Sprintf("%s/holds/%s/group/%s", cc.baseURL, url.PathEscape(name), url.PathEscape(group))
	req, err := http.NewRequest(http.MethodDelete, deleteURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := cc.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
