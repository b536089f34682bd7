package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/lib/pq"
)

// ErrDuplicateKey surfaces the table's (user_id, campaign_id, prospect_id)
// primary key. Callers treat it as "the row already exists".
var ErrDuplicateKey = errors.New("membership row already exists")

// ErrRowNotFound is returned by key-targeted updates that matched nothing.
var ErrRowNotFound = errors.New("membership row not found")

type MembershipRepository struct {
	DB *sql.DB
}

func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

func (r *MembershipRepository) ListByCampaign(ctx context.Context, userID, campaignID string) ([]entity.MembershipRow, error) {
	query := `
		SELECT user_id, campaign_id, prospect_id, external_lead_id, state, updated_at
		FROM campaign_memberships
		WHERE user_id = $1 AND campaign_id = $2
		ORDER BY prospect_id
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []entity.MembershipRow
	for rows.Next() {
		var row entity.MembershipRow
		var externalID sql.NullString
		if err := rows.Scan(&row.UserID, &row.CampaignID, &row.ProspectID, &externalID, &row.State, &row.UpdatedAt); err != nil {
			return nil, err
		}
		row.ExternalLeadID = externalID.String
		memberships = append(memberships, row)
	}
	return memberships, rows.Err()
}

func (r *MembershipRepository) Insert(ctx context.Context, row *entity.MembershipRow) error {
	if err := row.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO campaign_memberships (user_id, campaign_id, prospect_id, external_lead_id, state, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := r.DB.ExecContext(ctx, query,
		row.UserID,
		row.CampaignID,
		row.ProspectID,
		nullString(row.ExternalLeadID),
		string(row.State),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return ErrDuplicateKey
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) DeleteByKey(ctx context.Context, key entity.MembershipKey) error {
	query := `
		DELETE FROM campaign_memberships
		WHERE user_id = $1 AND campaign_id = $2 AND prospect_id = $3
	`

	// Deleting an absent row is fine: the end state holds either way.
	_, err := r.DB.ExecContext(ctx, query, key.UserID, key.CampaignID, key.ProspectID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}

func (r *MembershipRepository) UpdateExternalID(ctx context.Context, key entity.MembershipKey, externalLeadID string) error {
	query := `
		UPDATE campaign_memberships
		SET external_lead_id = $4, state = $5, updated_at = NOW()
		WHERE user_id = $1 AND campaign_id = $2 AND prospect_id = $3
	`

	res, err := r.DB.ExecContext(ctx, query,
		key.UserID, key.CampaignID, key.ProspectID,
		externalLeadID, string(entity.MembershipActive),
	)
	if err != nil {
		return fmt.Errorf("update membership external id: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRowNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
