package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leadline/prospect-sync/internal/entity"
)

type CampaignRepository struct {
	DB *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{DB: db}
}

func (r *CampaignRepository) ListByUser(ctx context.Context, userID string) ([]entity.Campaign, error) {
	query := `
		SELECT id, user_id, name, external_campaign_id, status, created_at, updated_at
		FROM campaigns
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []entity.Campaign
	for rows.Next() {
		var c entity.Campaign
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.ExternalCampaignID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// FindByID returns (nil, nil) when the campaign does not exist; ownership
// is the caller's check.
func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*entity.Campaign, error) {
	query := `
		SELECT id, user_id, name, external_campaign_id, status, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`

	var c entity.Campaign
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.ExternalCampaignID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return &c, nil
}
