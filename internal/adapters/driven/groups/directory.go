package groups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.GroupDirectory = (*Directory)(nil)

// Directory resolves group definitions from the external directory
// service. Group membership is owned there; this client only reads.
type Directory struct {
	baseURL      string
	serviceToken string
	client       *http.Client
}

// NewDirectory creates a client for the group directory service.
// The service token authenticates lookups made on the system's own
// behalf; per-user federated checks forward the caller's token instead.
func NewDirectory(baseURL, serviceToken string) (*Directory, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("group directory base URL is required")
	}

	return &Directory{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// lookupRequest is the request body for the group lookup endpoint
type lookupRequest struct {
	GroupIDs []string `json:"group_ids"`
}

// lookupResponse is the response from the group lookup endpoint
type lookupResponse struct {
	Groups []*domain.Group `json:"groups"`
	Error  string          `json:"error,omitempty"`
}

// membershipRequest is the request body for the federated membership check
type membershipRequest struct {
	UserID          string   `json:"user_id"`
	FederatedGroups []string `json:"federated_groups"`
}

// membershipResponse is the response from the federated membership check
type membershipResponse struct {
	Member bool   `json:"member"`
	Error  string `json:"error,omitempty"`
}

// GetGroups resolves the given group IDs. IDs the directory does not
// know are absent from the result map.
func (d *Directory) GetGroups(ctx context.Context, groupIDs []string) (map[string]*domain.Group, error) {
	if len(groupIDs) == 0 {
		return map[string]*domain.Group{}, nil
	}

	reqBody := lookupRequest{GroupIDs: groupIDs}

	var resp lookupResponse
	if err := d.doRequest(ctx, "/api/v1/groups/lookup", d.serviceToken, reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("group directory error: %s", resp.Error)
	}

	result := make(map[string]*domain.Group, len(resp.Groups))
	for _, group := range resp.Groups {
		result[group.ID] = group
	}
	return result, nil
}

// CheckMembership reports whether the user belongs to any of the named
// federated groups. The caller's bearer token is forwarded when present
// so the directory evaluates membership with the user's own authority.
func (d *Directory) CheckMembership(ctx context.Context, userID string, federatedGroups []string, token string) (bool, error) {
	if len(federatedGroups) == 0 {
		return false, nil
	}

	if token == "" {
		token = d.serviceToken
	}

	reqBody := membershipRequest{
		UserID:          userID,
		FederatedGroups: federatedGroups,
	}

	var resp membershipResponse
	if err := d.doRequest(ctx, "/api/v1/groups/membership", token, reqBody, &resp); err != nil {
		return false, err
	}
	if resp.Error != "" {
		return false, fmt.Errorf("group directory error: %s", resp.Error)
	}

	return resp.Member, nil
}

// doRequest posts a JSON body to a directory endpoint and decodes the response
func (d *Directory) doRequest(ctx context.Context, path, token string, reqBody, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("group directory unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("group directory error: %s", apiErr.Error)
		}
		return fmt.Errorf("group directory returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
