package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExecutorAppliesAllPhases(t *testing.T) {
	repo := new(MockMembershipRepository)
	platform := new(MockCampaignPlatform)
	executor := NewChangeSetExecutor(repo, platform)

	cs := ChangeSet{
		InSync:  2,
		Deletes: []entity.MembershipRow{row("p1", "E1")},
		Inserts: []PlannedInsert{{ProspectID: "p2", ExternalLeadID: "E2", Email: "b@x.com"}},
		Repairs: []PlannedRepair{{Row: row("p3", "E9"), NewExternalLeadID: "E3"}},
	}

	repo.On("DeleteByKey", mock.Anything, row("p1", "E1").Key()).Return(nil)
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *entity.MembershipRow) bool {
		return r.ProspectID == "p2" && r.ExternalLeadID == "E2" && r.State == entity.MembershipActive
	})).Return(nil)
	repo.On("UpdateExternalID", mock.Anything, row("p3", "E9").Key(), "E3").Return(nil)
	platform.On("UpdateLead", mock.Anything, "E3", mock.Anything).Return(nil)

	counts, err := executor.Execute(context.Background(), "u1", "c1", cs)

	assert.NoError(t, err)
	assert.Equal(t, 2, counts.Synced)
	assert.Equal(t, 1, counts.Inserted)
	assert.Equal(t, 1, counts.Updated)
	assert.Equal(t, 1, counts.SoftDeleted)
	assert.Empty(t, counts.Errors)
	repo.AssertExpectations(t)
}

func TestExecutorCollectsItemErrorsAndContinues(t *testing.T) {
	repo := new(MockMembershipRepository)
	platform := new(MockCampaignPlatform)
	executor := NewChangeSetExecutor(repo, platform)

	cs := ChangeSet{
		Inserts: []PlannedInsert{
			{ProspectID: "p1", ExternalLeadID: "E1"},
			{ProspectID: "p2", ExternalLeadID: "E2"},
			{ProspectID: "p3", ExternalLeadID: "E3"},
		},
	}

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *entity.MembershipRow) bool {
		return r.ProspectID == "p1"
	})).Return(errors.New("connection reset"))
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(r *entity.MembershipRow) bool {
		return r.ProspectID != "p1"
	})).Return(nil)

	counts, err := executor.Execute(context.Background(), "u1", "c1", cs)

	assert.NoError(t, err)
	assert.Equal(t, 2, counts.Inserted)
	assert.Len(t, counts.Errors, 1)
	assert.Equal(t, "insert", counts.Errors[0].Operation)
	assert.Equal(t, "p1", counts.Errors[0].ProspectID)
}

// A duplicate-key insert means the desired end state already holds.
func TestExecutorTreatsDuplicateInsertAsSuccess(t *testing.T) {
	repo := new(MockMembershipRepository)
	platform := new(MockCampaignPlatform)
	executor := NewChangeSetExecutor(repo, platform)

	cs := ChangeSet{Inserts: []PlannedInsert{{ProspectID: "p1", ExternalLeadID: "E1"}}}
	repo.On("Insert", mock.Anything, mock.Anything).Return(database.ErrDuplicateKey)

	counts, err := executor.Execute(context.Background(), "u1", "c1", cs)

	assert.NoError(t, err)
	assert.Equal(t, 0, counts.Inserted)
	assert.Equal(t, 1, counts.Synced)
	assert.Empty(t, counts.Errors)
}

// A failed lead refresh never undoes the local repair.
func TestExecutorRepairSurvivesLeadRefreshFailure(t *testing.T) {
	repo := new(MockMembershipRepository)
	platform := new(MockCampaignPlatform)
	executor := NewChangeSetExecutor(repo, platform)

	cs := ChangeSet{Repairs: []PlannedRepair{{Row: row("p1", ""), NewExternalLeadID: "E1"}}}
	repo.On("UpdateExternalID", mock.Anything, mock.Anything, "E1").Return(nil)
	platform.On("UpdateLead", mock.Anything, "E1", mock.Anything).Return(errors.New("timeout"))

	counts, err := executor.Execute(context.Background(), "u1", "c1", cs)

	assert.NoError(t, err)
	assert.Equal(t, 1, counts.Updated)
	assert.Empty(t, counts.Errors)
}

func TestExecutorStopsOnCancellation(t *testing.T) {
	repo := new(MockMembershipRepository)
	platform := new(MockCampaignPlatform)
	executor := NewChangeSetExecutor(repo, platform)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cs := ChangeSet{Deletes: []entity.MembershipRow{row("p1", "E1")}}
	counts, err := executor.Execute(ctx, "u1", "c1", cs)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, counts.SoftDeleted)
	repo.AssertNotCalled(t, "DeleteByKey", mock.Anything, mock.Anything)
}
