package usecase

import (
	"context"

	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
	"github.com/leadline/prospect-sync/internal/infra/queue"
	"github.com/stretchr/testify/mock"
)

// MockCampaignRepository
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) ListByUser(ctx context.Context, userID string) ([]entity.Campaign, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

// MockMembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) ListByCampaign(ctx context.Context, userID, campaignID string) ([]entity.MembershipRow, error) {
	args := m.Called(ctx, userID, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MembershipRow), args.Error(1)
}

func (m *MockMembershipRepository) Insert(ctx context.Context, row *entity.MembershipRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockMembershipRepository) DeleteByKey(ctx context.Context, key entity.MembershipKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpdateExternalID(ctx context.Context, key entity.MembershipKey, externalLeadID string) error {
	args := m.Called(ctx, key, externalLeadID)
	return args.Error(0)
}

// MockProspectRepository
type MockProspectRepository struct {
	mock.Mock
}

func (m *MockProspectRepository) FindByIDs(ctx context.Context, userID string, linkedinIDs []string) (map[string]*entity.Prospect, error) {
	args := m.Called(ctx, userID, linkedinIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entity.Prospect), args.Error(1)
}

// MockCampaignPlatform
type MockCampaignPlatform struct {
	mock.Mock
}

func (m *MockCampaignPlatform) ListLeads(ctx context.Context, campaignID string) ([]instantly.Lead, error) {
	args := m.Called(ctx, campaignID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]instantly.Lead), args.Error(1)
}

func (m *MockCampaignPlatform) CreateLead(ctx context.Context, campaignID string, input instantly.CreateLeadInput) (string, error) {
	args := m.Called(ctx, campaignID, input)
	return args.String(0), args.Error(1)
}

func (m *MockCampaignPlatform) UpdateLead(ctx context.Context, externalLeadID string, input instantly.UpdateLeadInput) error {
	args := m.Called(ctx, externalLeadID, input)
	return args.Error(0)
}

func (m *MockCampaignPlatform) DeleteLead(ctx context.Context, externalLeadID string) (bool, error) {
	args := m.Called(ctx, externalLeadID)
	return args.Bool(0), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishSyncRequest(ctx context.Context, payload queue.SyncRequestPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
