package usecase

import (
	"context"

	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
	"github.com/leadline/prospect-sync/internal/infra/queue"
)

// CampaignPlatform is the slice of the platform client the engine needs.
type CampaignPlatform interface {
	ListLeads(ctx context.Context, campaignID string) ([]instantly.Lead, error)
	CreateLead(ctx context.Context, campaignID string, input instantly.CreateLeadInput) (string, error)
	UpdateLead(ctx context.Context, externalLeadID string, input instantly.UpdateLeadInput) error
	DeleteLead(ctx context.Context, externalLeadID string) (bool, error)
}

type QueueProducerInterface interface {
	PublishSyncRequest(ctx context.Context, payload queue.SyncRequestPayload) error
}
