package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/lib/pq"
)

type ProspectRepository struct {
	DB *sql.DB
}

func NewProspectRepository(db *sql.DB) *ProspectRepository {
	return &ProspectRepository{DB: db}
}

// FindByIDs loads prospects with their email record and full verification
// history, keyed by linkedin id. Missing ids are simply absent from the map.
func (r *ProspectRepository) FindByIDs(ctx context.Context, userID string, linkedinIDs []string) (map[string]*entity.Prospect, error) {
	if len(linkedinIDs) == 0 {
		return map[string]*entity.Prospect{}, nil
	}

	query := `
		SELECT linkedin_id, user_id, first_name, last_name, company_name, email, email_status, created_at, updated_at
		FROM prospects
		WHERE user_id = $1 AND linkedin_id = ANY($2)
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(linkedinIDs))
	if err != nil {
		return nil, fmt.Errorf("find prospects: %w", err)
	}
	defer rows.Close()

	prospects := make(map[string]*entity.Prospect)
	for rows.Next() {
		var p entity.Prospect
		var firstName, lastName, companyName, email sql.NullString
		var emailStatus sql.NullString
		if err := rows.Scan(&p.LinkedinID, &p.UserID, &firstName, &lastName, &companyName, &email, &emailStatus, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.FirstName = firstName.String
		p.LastName = lastName.String
		p.CompanyName = companyName.String
		p.Email = email.String
		p.EmailStatus = entity.EmailStatus(emailStatus.String)
		if p.EmailStatus == "" {
			p.EmailStatus = entity.EmailStatusUnknown
		}
		prospects[p.LinkedinID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadVerifications(ctx, userID, linkedinIDs, prospects); err != nil {
		return nil, err
	}
	return prospects, nil
}

func (r *ProspectRepository) loadVerifications(ctx context.Context, userID string, linkedinIDs []string, prospects map[string]*entity.Prospect) error {
	query := `
		SELECT id, prospect_linkedin_id, status, safe_to_send, created_at
		FROM email_verifications
		WHERE user_id = $1 AND prospect_linkedin_id = ANY($2)
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(linkedinIDs))
	if err != nil {
		return fmt.Errorf("load verifications: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v entity.Verification
		var prospectID string
		if err := rows.Scan(&v.ID, &prospectID, &v.Status, &v.SafeToSend, &v.CreatedAt); err != nil {
			return err
		}
		if p, ok := prospects[prospectID]; ok {
			p.Verifications = append(p.Verifications, v)
		}
	}
	return rows.Err()
}
