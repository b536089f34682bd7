package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/database"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
)

// ItemError is one failed change inside an otherwise-continuing batch.
type ItemError struct {
	Operation  string `json:"operation"` // delete, insert, repair
	ProspectID string `json:"prospect_id"`
	Error      string `json:"error"`
}

// SyncCounts is the caller-facing summary of one reconciliation pass.
type SyncCounts struct {
	Synced      int         `json:"synced"`
	Inserted    int         `json:"inserted"`
	Updated     int         `json:"updated"`
	SoftDeleted int         `json:"softDeleted"`
	Errors      []ItemError `json:"errors,omitempty"`
}

// ChangeSetExecutor applies a planned ChangeSet to the membership store
// and the campaign platform. Deletes go first (stale rows must stop
// serving reads), then inserts, then repairs. One failed item never aborts
// the rest; every failure is collected per item. Cancellation is observed
// between items: whatever call is in flight completes, nothing further is
// applied.
type ChangeSetExecutor struct {
	MembershipRepo entity.MembershipRepositoryInterface
	Platform       CampaignPlatform
}

func NewChangeSetExecutor(repo entity.MembershipRepositoryInterface, platform CampaignPlatform) *ChangeSetExecutor {
	return &ChangeSetExecutor{MembershipRepo: repo, Platform: platform}
}

func (e *ChangeSetExecutor) Execute(ctx context.Context, userID, campaignID string, cs ChangeSet) (SyncCounts, error) {
	counts := SyncCounts{Synced: cs.InSync}

	for _, row := range cs.Deletes {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		if err := e.MembershipRepo.DeleteByKey(ctx, row.Key()); err != nil {
			counts.Errors = append(counts.Errors, itemError("delete", row.ProspectID, err))
			continue
		}
		counts.SoftDeleted++
	}

	for _, insert := range cs.Inserts {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		row := entity.NewActiveMembership(userID, campaignID, insert.ProspectID, insert.ExternalLeadID)
		err := e.MembershipRepo.Insert(ctx, row)
		switch {
		case err == nil:
			counts.Inserted++
		case errors.Is(err, database.ErrDuplicateKey):
			// The row already exists, which is the end state we wanted.
			counts.Synced++
		default:
			counts.Errors = append(counts.Errors, itemError("insert", insert.ProspectID, err))
		}
	}

	for _, repair := range cs.Repairs {
		if err := ctx.Err(); err != nil {
			return counts, err
		}
		if err := e.MembershipRepo.UpdateExternalID(ctx, repair.Row.Key(), repair.NewExternalLeadID); err != nil {
			counts.Errors = append(counts.Errors, itemError("repair", repair.Row.ProspectID, err))
			continue
		}
		counts.Updated++

		// Re-stamp the prospect marker on the platform side so the next
		// listing round-trips cleanly. Best effort: the local repair holds
		// either way and a later pass re-reads the truth from the platform.
		err := e.Platform.UpdateLead(ctx, repair.NewExternalLeadID, instantly.UpdateLeadInput{
			LinkedinID: repair.Row.ProspectID,
		})
		if err != nil {
			log.Printf("lead refresh failed campaign=%s prospect=%s lead=%s: %v",
				campaignID, repair.Row.ProspectID, repair.NewExternalLeadID, err)
		}
	}

	for _, leadID := range cs.SkippedDuplicateLeads {
		log.Printf("duplicate remote lead skipped campaign=%s lead=%s", campaignID, leadID)
	}

	return counts, nil
}

func itemError(operation, prospectID string, err error) ItemError {
	return ItemError{Operation: operation, ProspectID: prospectID, Error: err.Error()}
}
