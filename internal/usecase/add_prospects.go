package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/database"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
	"github.com/leadline/prospect-sync/internal/infra/queue"
)

// Per-item statuses of the add flow.
const (
	StatusInserted        = "inserted"
	StatusSkippedExisting = "skipped_existing"
	StatusWithoutEmail    = "without_email"
	StatusNotFound        = "not_found"
	StatusFailed          = "failed"
	StatusUnauthorized    = "unauthorized"
)

type AddProspectsInput struct {
	UserID      string   `json:"user_id"`
	CampaignID  string   `json:"campaign_id"`
	ProspectIDs []string `json:"prospect_ids"`

	// Options defaults to the strict policy when the request omits it.
	Options *entity.EligibilityOptions `json:"options,omitempty"`
}

type AddProspectResult struct {
	ProspectID string `json:"prospect_id"`
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

type AddProspectsOutput struct {
	Processed       int                 `json:"processed"`
	Inserted        int                 `json:"inserted"`
	SkippedExisting int                 `json:"skipped_existing"`
	Failed          int                 `json:"failed"`
	NotFound        int                 `json:"not_found"`
	WithoutEmail    int                 `json:"without_email"`
	Unauthorized    int                 `json:"unauthorized"`
	Results         []AddProspectResult `json:"results"`
}

// AddProspectsUseCase enrolls prospects into one campaign. Ownership is
// validated up front (whole request rejected, no side effects); after that
// every prospect is its own unit of work and failures never stop the batch.
// Each enrollment walks the row lifecycle: PENDING is written first, the
// lead is created upstream, then the row is activated with the returned id.
// A best-effort reconciliation request is queued at the end to self-heal
// whatever drift the partial failures left behind.
type AddProspectsUseCase struct {
	CampaignRepo   entity.CampaignRepositoryInterface
	ProspectRepo   entity.ProspectRepositoryInterface
	MembershipRepo entity.MembershipRepositoryInterface
	Platform       CampaignPlatform
	Queue          QueueProducerInterface
}

func NewAddProspectsUseCase(
	campaignRepo entity.CampaignRepositoryInterface,
	prospectRepo entity.ProspectRepositoryInterface,
	membershipRepo entity.MembershipRepositoryInterface,
	platform CampaignPlatform,
	producer QueueProducerInterface,
) *AddProspectsUseCase {
	return &AddProspectsUseCase{
		CampaignRepo:   campaignRepo,
		ProspectRepo:   prospectRepo,
		MembershipRepo: membershipRepo,
		Platform:       platform,
		Queue:          producer,
	}
}

func (uc *AddProspectsUseCase) Execute(ctx context.Context, input AddProspectsInput) (*AddProspectsOutput, error) {
	campaign, err := uc.authorize(ctx, input.UserID, input.CampaignID)
	if err != nil {
		return nil, err
	}
	if len(input.ProspectIDs) == 0 {
		return nil, validationErr("prospect_ids", "at least one prospect is required")
	}

	prospects, err := uc.ProspectRepo.FindByIDs(ctx, input.UserID, input.ProspectIDs)
	if err != nil {
		return nil, err
	}

	existing, err := uc.existingMemberships(ctx, input.UserID, input.CampaignID)
	if err != nil {
		return nil, err
	}

	opts := entity.DefaultEligibilityOptions()
	if input.Options != nil {
		opts = *input.Options
	}

	output := &AddProspectsOutput{}
	for _, prospectID := range input.ProspectIDs {
		output.Processed++
		result := uc.addOne(ctx, campaign, prospects[prospectID], prospectID, opts, existing)
		output.Results = append(output.Results, result)

		switch result.Status {
		case StatusInserted:
			output.Inserted++
		case StatusSkippedExisting:
			output.SkippedExisting++
		case StatusWithoutEmail:
			output.WithoutEmail++
		case StatusNotFound:
			output.NotFound++
		case StatusUnauthorized:
			output.Unauthorized++
		default:
			output.Failed++
		}
	}

	triggerReconciliation(uc.Queue, input.UserID, input.CampaignID, "add_prospects")
	return output, nil
}

func (uc *AddProspectsUseCase) addOne(
	ctx context.Context,
	campaign *entity.Campaign,
	prospect *entity.Prospect,
	prospectID string,
	opts entity.EligibilityOptions,
	existing map[string]entity.MembershipRow,
) AddProspectResult {
	result := AddProspectResult{ProspectID: prospectID}

	if prospect == nil {
		result.Status = StatusNotFound
		return result
	}
	if row, ok := existing[prospectID]; ok {
		result.Status = StatusSkippedExisting
		result.ExternalID = row.ExternalLeadID
		return result
	}

	decision := ResolveEligibleEmail(prospect.EmailCandidate(), opts)
	if !decision.Eligible {
		result.Status = StatusWithoutEmail
		result.Error = decision.Reason
		return result
	}

	// Local row first, in PENDING: the null external id marks the remote
	// creation as in flight, and the unique key serializes racing adds.
	row := entity.NewPendingMembership(campaign.UserID, campaign.ID, prospectID)
	if err := uc.MembershipRepo.Insert(ctx, row); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			// Raced with another add; the desired end state already holds.
			result.Status = StatusSkippedExisting
			return result
		}
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	leadID, err := uc.Platform.CreateLead(ctx, campaign.ExternalCampaignID, instantly.CreateLeadInput{
		Email:       decision.Email,
		FirstName:   prospect.FirstName,
		LastName:    prospect.LastName,
		CompanyName: prospect.CompanyName,
		LinkedinID:  prospectID,
	})
	if err != nil {
		if errors.Is(err, instantly.ErrAuth) {
			result.Status = StatusUnauthorized
		} else {
			result.Status = StatusFailed
		}
		result.Error = err.Error()

		// A definitive refusal means the lead will never exist: roll the
		// pending row back so a corrected retry can re-add. On a transient
		// failure the create may have landed despite the error, so the row
		// stays pending for the queued pass to pick up.
		_, rejected := instantly.IsRejected(err)
		if rejected || errors.Is(err, instantly.ErrAuth) {
			if derr := uc.MembershipRepo.DeleteByKey(ctx, row.Key()); derr != nil {
				log.Printf("⚠️ pending row rollback failed campaign=%s prospect=%s: %v", campaign.ID, prospectID, derr)
			}
		}
		return result
	}

	if err := row.Activate(leadID); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}
	if err := uc.MembershipRepo.UpdateExternalID(ctx, row.Key(), row.ExternalLeadID); err != nil {
		// The lead exists upstream; the row stays pending and the queued
		// reconciliation pass fills the external id back in.
		result.Status = StatusFailed
		result.Error = err.Error()
		return result
	}

	result.Status = StatusInserted
	result.ExternalID = leadID
	return result
}

func (uc *AddProspectsUseCase) authorize(ctx context.Context, userID, campaignID string) (*entity.Campaign, error) {
	if userID == "" {
		return nil, validationErr("user_id", "is required")
	}
	if campaignID == "" {
		return nil, validationErr("campaign_id", "is required")
	}

	campaign, err := uc.CampaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil || !campaign.OwnedBy(userID) {
		return nil, validationErr("campaign_id", "campaign not found for this user")
	}
	return campaign, nil
}

func (uc *AddProspectsUseCase) existingMemberships(ctx context.Context, userID, campaignID string) (map[string]entity.MembershipRow, error) {
	rows, err := uc.MembershipRepo.ListByCampaign(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]entity.MembershipRow, len(rows))
	for _, row := range rows {
		existing[row.ProspectID] = row
	}
	return existing, nil
}

// triggerReconciliation queues a best-effort sync pass. The add/remove has
// already (partially) succeeded at this point, so a publish failure is
// logged, never surfaced to the caller.
func triggerReconciliation(producer QueueProducerInterface, userID, campaignID, reason string) {
	if producer == nil {
		return
	}
	payload := queue.SyncRequestPayload{
		RunID:      uuid.New().String(),
		UserID:     userID,
		CampaignID: campaignID,
		Reason:     reason,
	}
	if err := producer.PublishSyncRequest(context.Background(), payload); err != nil {
		log.Printf("⚠️ reconciliation trigger failed campaign=%s reason=%s: %v", campaignID, reason, err)
	}
}
