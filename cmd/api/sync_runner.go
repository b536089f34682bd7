package main

import (
	"context"

	"github.com/leadline/prospect-sync/internal/infra/queue"
	"github.com/leadline/prospect-sync/internal/usecase"
)

// syncRunner adapts the sync use case to the queue worker's contract.
type syncRunner struct {
	Sync *usecase.SyncCampaignsUseCase
}

func (s *syncRunner) RunSync(ctx context.Context, payload queue.SyncRequestPayload) (queue.SyncReport, error) {
	output, err := s.Sync.Execute(ctx, usecase.SyncCampaignsInput{
		UserID:     payload.UserID,
		CampaignID: payload.CampaignID,
	})
	if err != nil {
		if usecase.IsValidationError(err) {
			// Redelivery cannot fix a bad request; send it to the DLQ.
			return queue.SyncReport{}, queue.Permanent(err)
		}
		return queue.SyncReport{}, err
	}

	report := queue.SyncReport{
		RunID:       payload.RunID,
		UserID:      payload.UserID,
		CampaignID:  payload.CampaignID,
		Synced:      output.Synced,
		Inserted:    output.Inserted,
		Updated:     output.Updated,
		SoftDeleted: output.SoftDeleted,
	}
	if report.RunID == "" {
		report.RunID = output.RunID
	}
	for _, campaign := range output.Campaigns {
		report.Failed += len(campaign.Errors)
		if campaign.Error != "" {
			report.Failed++
		}
	}
	return report, nil
}
