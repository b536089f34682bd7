package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Campaign struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`

	// ExternalCampaignID is the campaign's id on the email platform.
	// Every lead call for this campaign uses it, never the local ID.
	ExternalCampaignID string `json:"external_campaign_id"`

	Status    string    `json:"status"` // DRAFT, RUNNING, PAUSED
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CampaignRepositoryInterface interface {
	ListByUser(ctx context.Context, userID string) ([]Campaign, error)
	FindByID(ctx context.Context, id string) (*Campaign, error)
}

func NewCampaign(userID, name, externalCampaignID string) (*Campaign, error) {
	campaign := &Campaign{
		ID:                 uuid.New().String(),
		UserID:             userID,
		Name:               name,
		ExternalCampaignID: externalCampaignID,
		Status:             "DRAFT",
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := campaign.Validate(); err != nil {
		return nil, err
	}

	return campaign, nil
}

func (c *Campaign) Validate() error {
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.ExternalCampaignID == "" {
		return errors.New("external_campaign_id is required")
	}
	return nil
}

// OwnedBy reports whether the campaign belongs to the given user.
func (c *Campaign) OwnedBy(userID string) bool {
	return c.UserID == userID
}
