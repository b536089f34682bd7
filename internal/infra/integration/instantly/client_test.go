package instantly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(server *httptest.Server) *Client {
	client := NewClient("test-key", server.URL)
	client.Retry = ZeroDelayPolicy()
	return client
}

func TestListLeadsFollowsCursor(t *testing.T) {
	pages := map[string]listLeadsResponse{
		"": {
			Items: []leadPayload{
				{ID: "E1", CampaignID: "x1", Email: "a@x.com", Custom: map[string]string{"linkedin_id": "p1"}},
				{ID: "E2", CampaignID: "x1", Email: "b@x.com", Custom: map[string]string{"linkedin_id": "p2"}},
			},
			NextStartingAfter: "E2",
		},
		"E2": {
			Items: []leadPayload{
				{ID: "E3", CampaignID: "x1", Email: "c@x.com"},
			},
		},
	}

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/api/v2/leads/list", r.URL.Path)
		assert.Equal(t, "x1", r.URL.Query().Get("campaign_id"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		page, ok := pages[r.URL.Query().Get("starting_after")]
		if !ok {
			t.Fatalf("unexpected cursor %q", r.URL.Query().Get("starting_after"))
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	leads, err := newTestClient(server).ListLeads(context.Background(), "x1")

	assert.NoError(t, err)
	assert.Equal(t, 2, requests)
	assert.Len(t, leads, 3)
	assert.Equal(t, "p1", leads[0].LinkedinID)
	assert.Equal(t, "p2", leads[1].LinkedinID)
	assert.Empty(t, leads[2].LinkedinID)
}

func TestCreateLeadSendsFlagsAndReturnsID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/leads", r.URL.Path)

		var body createLeadRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "x1", body.CampaignID)
		assert.Equal(t, "jane@x.com", body.Email)
		assert.Equal(t, "p1", body.Custom["linkedin_id"])
		assert.True(t, body.SkipDuplicateCheck)
		assert.True(t, body.SkipVerification)

		json.NewEncoder(w).Encode(createLeadResponse{ID: "E1"})
	}))
	defer server.Close()

	id, err := newTestClient(server).CreateLead(context.Background(), "x1", CreateLeadInput{
		Email:      "jane@x.com",
		FirstName:  "Jane",
		LinkedinID: "p1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "E1", id)
}

func TestDeleteLeadTreats404AsAlreadyGone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v2/leads/E1", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	deleted, err := newTestClient(server).DeleteLead(context.Background(), "E1")

	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteLeadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	deleted, err := newTestClient(server).DeleteLead(context.Background(), "E1")

	assert.NoError(t, err)
	assert.True(t, deleted)
}

// 401 aborts immediately; retrying a bad key only burns the rate limit.
func TestAuthFailureIsNotRetried(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server).ListLeads(context.Background(), "x1")

	assert.ErrorIs(t, err, ErrAuth)
	assert.Equal(t, 1, requests)
}

func TestRejectionCarriesStatusAndReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(apiErrorResponse{Error: "invalid email"})
	}))
	defer server.Close()

	_, err := newTestClient(server).CreateLead(context.Background(), "x1", CreateLeadInput{Email: "nope"})

	var rejected *RejectedError
	assert.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.StatusCode)
	assert.Equal(t, "invalid email", rejected.Reason)
}

func TestServerErrorsAreRetriedUntilExhaustion(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server).ListLeads(context.Background(), "x1")

	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 4, requests)
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(listLeadsResponse{
			Items: []leadPayload{{ID: "E1", Email: "a@x.com"}},
		})
	}))
	defer server.Close()

	leads, err := newTestClient(server).ListLeads(context.Background(), "x1")

	assert.NoError(t, err)
	assert.Equal(t, 3, requests)
	assert.Len(t, leads, 1)
}

func TestUpdateLeadPatchesEmailAndCustom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v2/leads/E1", r.URL.Path)

		var body updateLeadRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@x.com", body.Email)
		assert.Equal(t, "p1", body.Custom["linkedin_id"])

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server).UpdateLead(context.Background(), "E1", UpdateLeadInput{
		Email:      "new@x.com",
		LinkedinID: "p1",
	})

	assert.NoError(t, err)
}

func TestRetryPolicyDelayIsBoundedByMaxDelay(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.Jitter = 0

	for attempt := 1; attempt < 10; attempt++ {
		d := policy.delay(attempt)
		assert.LessOrEqual(t, d, policy.MaxDelay, fmt.Sprintf("attempt %d", attempt))
		assert.GreaterOrEqual(t, d, policy.BaseDelay)
	}
}
