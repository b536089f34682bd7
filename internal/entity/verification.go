package entity

import "time"

type VerificationStatus string

const (
	VerificationValid    VerificationStatus = "valid"
	VerificationInvalid  VerificationStatus = "invalid"
	VerificationCatchAll VerificationStatus = "catch_all"
	VerificationUnknown  VerificationStatus = "unknown"
	VerificationNone     VerificationStatus = "none"
)

type SafeToSend string

const (
	SafeToSendYes     SafeToSend = "yes"
	SafeToSendNo      SafeToSend = "no"
	SafeToSendUnknown SafeToSend = "unknown"
)

// Verification is one result from the verification provider. A prospect can
// accumulate several over time; only the latest one counts.
type Verification struct {
	ID         string             `json:"id"`
	Status     VerificationStatus `json:"status"`
	SafeToSend SafeToSend         `json:"safe_to_send"`
	CreatedAt  time.Time          `json:"created_at"`
}

// LatestVerification picks the verification with the greatest CreatedAt.
// Equal timestamps break by lexicographically greatest ID, so the winner is
// deterministic regardless of input order. Returns nil for an empty list.
func LatestVerification(verifications []Verification) *Verification {
	var latest *Verification
	for i := range verifications {
		v := &verifications[i]
		if latest == nil {
			latest = v
			continue
		}
		if v.CreatedAt.After(latest.CreatedAt) {
			latest = v
			continue
		}
		if v.CreatedAt.Equal(latest.CreatedAt) && v.ID > latest.ID {
			latest = v
		}
	}
	return latest
}

// EmailCandidate is the merged view the eligibility rules run against:
// the raw email record with the latest verification layered on top.
// VerificationStatus is VerificationNone when no verification exists.
type EmailCandidate struct {
	Address               string             `json:"address"`
	SourceStatus          EmailStatus        `json:"source_status"`
	VerificationStatus    VerificationStatus `json:"verification_status"`
	SafeToSend            SafeToSend         `json:"safe_to_send"`
	VerificationCreatedAt time.Time          `json:"verification_created_at,omitempty"`
}

// HasVerification reports whether a verification record backs this candidate.
func (c *EmailCandidate) HasVerification() bool {
	return c.VerificationStatus != VerificationNone
}

// EligibilityOptions is the caller's risk tolerance for submitting emails
// to the campaign platform.
type EligibilityOptions struct {
	IncludeRiskyEmails  bool `json:"include_risky_emails"`
	IncludeOnlyVerified bool `json:"include_only_verified"`
}

func DefaultEligibilityOptions() EligibilityOptions {
	return EligibilityOptions{
		IncludeRiskyEmails:  false,
		IncludeOnlyVerified: true,
	}
}
