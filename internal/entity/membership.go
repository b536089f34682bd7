package entity

import (
	"context"
	"errors"
	"time"
)

// MembershipState is the explicit lifecycle of a membership row.
// PENDING: local row exists, platform lead not confirmed yet.
// ACTIVE: platform lead confirmed, external id stored.
type MembershipState string

const (
	MembershipPending MembershipState = "PENDING"
	MembershipActive  MembershipState = "ACTIVE"
)

// MembershipRow records one prospect's enrollment in one campaign.
// At most one row may exist per (user_id, campaign_id, prospect_id);
// the store enforces that through its primary key.
type MembershipRow struct {
	UserID     string `json:"user_id"`
	CampaignID string `json:"campaign_id"`
	ProspectID string `json:"prospect_id"` // prospect LinkedIn id

	// ExternalLeadID is empty only while the row is PENDING.
	ExternalLeadID string          `json:"external_lead_id,omitempty"`
	State          MembershipState `json:"state"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type MembershipKey struct {
	UserID     string
	CampaignID string
	ProspectID string
}

type MembershipRepositoryInterface interface {
	ListByCampaign(ctx context.Context, userID, campaignID string) ([]MembershipRow, error)
	Insert(ctx context.Context, row *MembershipRow) error
	DeleteByKey(ctx context.Context, key MembershipKey) error
	UpdateExternalID(ctx context.Context, key MembershipKey, externalLeadID string) error
}

func NewPendingMembership(userID, campaignID, prospectID string) *MembershipRow {
	return &MembershipRow{
		UserID:     userID,
		CampaignID: campaignID,
		ProspectID: prospectID,
		State:      MembershipPending,
		UpdatedAt:  time.Now(),
	}
}

func NewActiveMembership(userID, campaignID, prospectID, externalLeadID string) *MembershipRow {
	return &MembershipRow{
		UserID:         userID,
		CampaignID:     campaignID,
		ProspectID:     prospectID,
		ExternalLeadID: externalLeadID,
		State:          MembershipActive,
		UpdatedAt:      time.Now(),
	}
}

func (r MembershipRow) Key() MembershipKey {
	return MembershipKey{UserID: r.UserID, CampaignID: r.CampaignID, ProspectID: r.ProspectID}
}

// Activate moves the row to ACTIVE with the confirmed platform lead id.
func (r *MembershipRow) Activate(externalLeadID string) error {
	if externalLeadID == "" {
		return errors.New("external lead id is required to activate a membership")
	}
	r.ExternalLeadID = externalLeadID
	r.State = MembershipActive
	r.UpdatedAt = time.Now()
	return nil
}

func (r *MembershipRow) Validate() error {
	if r.UserID == "" {
		return errors.New("user_id is required")
	}
	if r.CampaignID == "" {
		return errors.New("campaign_id is required")
	}
	if r.ProspectID == "" {
		return errors.New("prospect_id is required")
	}
	if r.State == MembershipActive && r.ExternalLeadID == "" {
		return errors.New("active membership requires an external lead id")
	}
	return nil
}
