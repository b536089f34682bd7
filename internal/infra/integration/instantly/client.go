package instantly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultPageSize = 100

// Client talks to the campaign platform's v2 lead API. The platform is
// documented as slow, hence the generous per-call timeout; transient
// failures go through Retry before surfacing as ErrUnavailable.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	Retry RetryPolicy
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 20 * time.Second},
		Retry:   DefaultRetryPolicy(),
	}
}

// Leads returns a pager over the campaign's leads. The sequence is lazy;
// restarting means asking for a fresh pager.
func (c *Client) Leads(campaignID string) *LeadPager {
	return &LeadPager{client: c, campaignID: campaignID}
}

// ListLeads materializes the whole lead list for a campaign.
func (c *Client) ListLeads(ctx context.Context, campaignID string) ([]Lead, error) {
	pager := c.Leads(campaignID)

	var leads []Lead
	for pager.HasMore() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		leads = append(leads, page...)
	}
	return leads, nil
}

// CreateLead enrolls a prospect in a campaign and returns the platform's
// lead id. 4xx responses are not retried.
func (c *Client) CreateLead(ctx context.Context, campaignID string, input CreateLeadInput) (string, error) {
	custom := map[string]string{customLinkedinKey: input.LinkedinID}
	for k, v := range input.Custom {
		custom[k] = v
	}

	payload := createLeadRequest{
		CampaignID:         campaignID,
		Email:              input.Email,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		CompanyName:        input.CompanyName,
		Custom:             custom,
		SkipDuplicateCheck: true,
		SkipVerification:   true,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal lead: %w", err)
	}

	var leadID string
	err = c.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/leads", bytes.NewReader(jsonBody))
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return transportError(ctx, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.classify(resp)
		}

		var response createLeadResponse
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("decode lead response: %w", err)
		}
		if response.ID == "" {
			return fmt.Errorf("platform returned no lead id")
		}
		leadID = response.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	return leadID, nil
}

// UpdateLead refreshes an existing lead's email and custom variables.
func (c *Client) UpdateLead(ctx context.Context, externalLeadID string, input UpdateLeadInput) error {
	custom := map[string]string{}
	if input.LinkedinID != "" {
		custom[customLinkedinKey] = input.LinkedinID
	}
	for k, v := range input.Custom {
		custom[k] = v
	}

	payload := updateLeadRequest{Email: input.Email, Custom: custom}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal lead update: %w", err)
	}

	endpoint := c.baseURL + "/api/v2/leads/" + url.PathEscape(externalLeadID)
	return c.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(jsonBody))
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return transportError(ctx, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.classify(resp)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	})
}

// DeleteLead removes a lead. A 404 is success from our point of view (the
// lead is already gone, which is the end state we wanted); the returned
// bool is false in that case so callers can report "already deleted".
func (c *Client) DeleteLead(ctx context.Context, externalLeadID string) (bool, error) {
	endpoint := c.baseURL + "/api/v2/leads/" + url.PathEscape(externalLeadID)

	deleted := false
	err := c.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return transportError(ctx, err)
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusNotFound:
			deleted = false
			return nil
		case resp.StatusCode >= 200 && resp.StatusCode <= 299:
			deleted = true
			return nil
		default:
			return c.classify(resp)
		}
	})
	if err != nil {
		return false, err
	}

	return deleted, nil
}

// LeadPager pages through GET /api/v2/leads/list using the platform's
// starting_after cursor.
type LeadPager struct {
	client     *Client
	campaignID string
	cursor     string
	done       bool
}

func (p *LeadPager) HasMore() bool {
	return !p.done
}

func (p *LeadPager) Next(ctx context.Context) ([]Lead, error) {
	if p.done {
		return nil, nil
	}

	query := url.Values{}
	query.Set("campaign_id", p.campaignID)
	query.Set("limit", strconv.Itoa(defaultPageSize))
	if p.cursor != "" {
		query.Set("starting_after", p.cursor)
	}
	endpoint := p.client.baseURL + "/api/v2/leads/list?" + query.Encode()

	var response listLeadsResponse
	err := p.client.Retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		p.client.setHeaders(req)

		resp, err := p.client.http.Do(req)
		if err != nil {
			return transportError(ctx, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return p.client.classify(resp)
		}

		response = listLeadsResponse{}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("decode lead list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	leads := make([]Lead, 0, len(response.Items))
	for _, item := range response.Items {
		leads = append(leads, item.toLead())
	}

	if response.NextStartingAfter == "" || len(response.Items) == 0 {
		p.done = true
	} else {
		p.cursor = response.NextStartingAfter
	}

	return leads, nil
}

// classify maps a non-2xx response to the error taxonomy.
func (c *Client) classify(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrAuth)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		var apiErr apiErrorResponse
		reason := string(body)
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.reason() != "" {
			reason = apiErr.reason()
		}
		return &RejectedError{StatusCode: resp.StatusCode, Reason: reason}
	default:
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrUnavailable)
	}
}

// transportError keeps caller cancellation distinct from platform flakiness.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%v: %w", err, ErrUnavailable)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
