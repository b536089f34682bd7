package usecase

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
)

type SyncCampaignsInput struct {
	UserID string `json:"user_id"`

	// CampaignID narrows the run to a single campaign when set.
	CampaignID string `json:"campaign_id,omitempty"`
}

type CampaignSyncResult struct {
	CampaignID string `json:"campaign_id"`
	SyncCounts
	Error string `json:"error,omitempty"` // pass-level failure for this campaign
}

type SyncCampaignsOutput struct {
	RunID       string               `json:"run_id"`
	Synced      int                  `json:"synced"`
	Inserted    int                  `json:"inserted"`
	Updated     int                  `json:"updated"`
	SoftDeleted int                  `json:"softDeleted"`
	Campaigns   []CampaignSyncResult `json:"campaigns"`
}

// SyncCampaignsUseCase runs Planner+Executor for each of a user's
// campaigns, sequentially. Sequential on purpose: the pacing sleep between
// campaigns is what keeps us under the platform's implicit rate limit.
type SyncCampaignsUseCase struct {
	CampaignRepo   entity.CampaignRepositoryInterface
	MembershipRepo entity.MembershipRepositoryInterface
	Platform       CampaignPlatform

	// Pacing bounds for the jittered sleep between campaigns.
	// Both zero means no sleep (tests).
	PacingMin time.Duration
	PacingMax time.Duration
}

func NewSyncCampaignsUseCase(
	campaignRepo entity.CampaignRepositoryInterface,
	membershipRepo entity.MembershipRepositoryInterface,
	platform CampaignPlatform,
) *SyncCampaignsUseCase {
	return &SyncCampaignsUseCase{
		CampaignRepo:   campaignRepo,
		MembershipRepo: membershipRepo,
		Platform:       platform,
		PacingMin:      300 * time.Millisecond,
		PacingMax:      500 * time.Millisecond,
	}
}

func (uc *SyncCampaignsUseCase) Execute(ctx context.Context, input SyncCampaignsInput) (*SyncCampaignsOutput, error) {
	if input.UserID == "" {
		return nil, validationErr("user_id", "is required")
	}

	campaigns, err := uc.loadCampaigns(ctx, input)
	if err != nil {
		return nil, err
	}

	output := &SyncCampaignsOutput{RunID: uuid.New().String()}
	executor := NewChangeSetExecutor(uc.MembershipRepo, uc.Platform)

	for i, campaign := range campaigns {
		if i > 0 {
			if err := uc.pace(ctx); err != nil {
				return output, err
			}
		}
		if err := ctx.Err(); err != nil {
			return output, err
		}

		result := uc.syncOne(ctx, executor, campaign)
		output.Campaigns = append(output.Campaigns, result)
		output.Synced += result.Synced
		output.Inserted += result.Inserted
		output.Updated += result.Updated
		output.SoftDeleted += result.SoftDeleted

		if result.Error != "" {
			log.Printf("⚠️ sync pass failed run=%s campaign=%s: %s", output.RunID, campaign.ID, result.Error)
		}
	}

	return output, nil
}

// syncOne runs a single reconciliation pass. A pass-level failure (auth,
// platform down while listing) is recorded on the result and must not stop
// the remaining campaigns.
func (uc *SyncCampaignsUseCase) syncOne(ctx context.Context, executor *ChangeSetExecutor, campaign entity.Campaign) CampaignSyncResult {
	result := CampaignSyncResult{CampaignID: campaign.ID}

	local, err := uc.MembershipRepo.ListByCampaign(ctx, campaign.UserID, campaign.ID)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	remote, err := uc.Platform.ListLeads(ctx, campaign.ExternalCampaignID)
	if err != nil {
		if errors.Is(err, instantly.ErrAuth) {
			result.Error = "platform auth failed, campaign skipped"
		} else {
			result.Error = err.Error()
		}
		return result
	}

	cs := PlanReconciliation(local, remote)
	counts, err := executor.Execute(ctx, campaign.UserID, campaign.ID, cs)
	result.SyncCounts = counts
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func (uc *SyncCampaignsUseCase) loadCampaigns(ctx context.Context, input SyncCampaignsInput) ([]entity.Campaign, error) {
	if input.CampaignID != "" {
		campaign, err := uc.CampaignRepo.FindByID(ctx, input.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign == nil || !campaign.OwnedBy(input.UserID) {
			return nil, validationErr("campaign_id", "campaign not found for this user")
		}
		return []entity.Campaign{*campaign}, nil
	}
	return uc.CampaignRepo.ListByUser(ctx, input.UserID)
}

func (uc *SyncCampaignsUseCase) pace(ctx context.Context) error {
	delay := uc.PacingMin
	if jitter := uc.PacingMax - uc.PacingMin; jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(jitter)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
