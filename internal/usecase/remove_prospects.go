package usecase

import (
	"context"

	"github.com/leadline/prospect-sync/internal/entity"
)

// Per-item statuses of the remove flow.
const (
	StatusRemoved        = "removed"
	StatusAlreadyDeleted = "already_deleted"
)

type RemoveProspectsInput struct {
	UserID      string   `json:"user_id"`
	CampaignID  string   `json:"campaign_id"`
	ProspectIDs []string `json:"prospect_ids"`
}

type RemoveProspectResult struct {
	ProspectID string `json:"prospect_id"`
	ExternalID string `json:"external_id,omitempty"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

type RemoveProspectsOutput struct {
	Attempted int                    `json:"attempted"`
	Removed   int                    `json:"removed"`
	Results   []RemoveProspectResult `json:"results"`
}

// RemoveProspectsUseCase unenrolls prospects from a campaign. Ownership and
// membership are validated for the whole request before anything is touched:
// a remove must never silently skip past an ownership check. Upstream 404 on
// delete is success (already_deleted), the local row is hard-deleted either
// way, and a best-effort reconciliation pass runs afterwards.
type RemoveProspectsUseCase struct {
	CampaignRepo   entity.CampaignRepositoryInterface
	MembershipRepo entity.MembershipRepositoryInterface
	Platform       CampaignPlatform
	Queue          QueueProducerInterface
}

func NewRemoveProspectsUseCase(
	campaignRepo entity.CampaignRepositoryInterface,
	membershipRepo entity.MembershipRepositoryInterface,
	platform CampaignPlatform,
	producer QueueProducerInterface,
) *RemoveProspectsUseCase {
	return &RemoveProspectsUseCase{
		CampaignRepo:   campaignRepo,
		MembershipRepo: membershipRepo,
		Platform:       platform,
		Queue:          producer,
	}
}

func (uc *RemoveProspectsUseCase) Execute(ctx context.Context, input RemoveProspectsInput) (*RemoveProspectsOutput, error) {
	if input.UserID == "" {
		return nil, validationErr("user_id", "is required")
	}
	if input.CampaignID == "" {
		return nil, validationErr("campaign_id", "is required")
	}
	if len(input.ProspectIDs) == 0 {
		return nil, validationErr("prospect_ids", "at least one prospect is required")
	}

	campaign, err := uc.CampaignRepo.FindByID(ctx, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || !campaign.OwnedBy(input.UserID) {
		return nil, validationErr("campaign_id", "campaign not found for this user")
	}

	rows, err := uc.MembershipRepo.ListByCampaign(ctx, input.UserID, input.CampaignID)
	if err != nil {
		return nil, err
	}
	byProspect := make(map[string]entity.MembershipRow, len(rows))
	for _, row := range rows {
		byProspect[row.ProspectID] = row
	}

	// Whole-request validation: every prospect must be a member.
	for _, prospectID := range input.ProspectIDs {
		if _, ok := byProspect[prospectID]; !ok {
			return nil, validationErr("prospect_ids", "prospect "+prospectID+" is not in this campaign")
		}
	}

	output := &RemoveProspectsOutput{}
	for _, prospectID := range input.ProspectIDs {
		output.Attempted++
		result := uc.removeOne(ctx, byProspect[prospectID])
		output.Results = append(output.Results, result)
		if result.Error == "" {
			output.Removed++
		}
	}

	uc.trigger(input.UserID, input.CampaignID)
	return output, nil
}

func (uc *RemoveProspectsUseCase) removeOne(ctx context.Context, row entity.MembershipRow) RemoveProspectResult {
	result := RemoveProspectResult{ProspectID: row.ProspectID, ExternalID: row.ExternalLeadID}

	result.Status = StatusRemoved
	if row.ExternalLeadID != "" {
		deleted, err := uc.Platform.DeleteLead(ctx, row.ExternalLeadID)
		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			return result
		}
		if !deleted {
			result.Status = StatusAlreadyDeleted
		}
	}

	// Hard-delete the local row; idempotent 404 above still lands here.
	if err := uc.MembershipRepo.DeleteByKey(ctx, row.Key()); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
	}
	return result
}

func (uc *RemoveProspectsUseCase) trigger(userID, campaignID string) {
	triggerReconciliation(uc.Queue, userID, campaignID, "remove_prospects")
}
