package entity

import (
	"context"
	"time"
)

// EmailStatus is the raw status stored on the prospect's email record,
// as reported by the enrichment pipeline (before any verification).
type EmailStatus string

const (
	EmailStatusValid    EmailStatus = "valid"
	EmailStatusRisky    EmailStatus = "risky"
	EmailStatusInvalid  EmailStatus = "invalid"
	EmailStatusNotFound EmailStatus = "not_found"
	EmailStatusCatchAll EmailStatus = "catch_all"
	EmailStatusUnknown  EmailStatus = "unknown"
)

// Prospect is keyed by its LinkedIn id: that id is also what gets stamped
// on platform leads, so both systems agree on who a lead refers to.
type Prospect struct {
	LinkedinID  string `json:"linkedin_id"`
	UserID      string `json:"user_id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	CompanyName string `json:"company_name,omitempty"`

	Email       string      `json:"email,omitempty"`
	EmailStatus EmailStatus `json:"email_status"`

	Verifications []Verification `json:"verifications,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProspectRepositoryInterface interface {
	FindByIDs(ctx context.Context, userID string, linkedinIDs []string) (map[string]*Prospect, error)
}

// EmailCandidate derives the prospect's submittable email, with the latest
// verification (when any) layered over the raw status. Returns nil when the
// prospect has no email record at all.
func (p *Prospect) EmailCandidate() *EmailCandidate {
	if p.Email == "" {
		return nil
	}

	candidate := &EmailCandidate{
		Address:            p.Email,
		SourceStatus:       p.EmailStatus,
		VerificationStatus: VerificationNone,
		SafeToSend:         SafeToSendUnknown,
	}

	if v := LatestVerification(p.Verifications); v != nil {
		candidate.VerificationStatus = v.Status
		candidate.SafeToSend = v.SafeToSend
		candidate.VerificationCreatedAt = v.CreatedAt
	}

	return candidate
}
