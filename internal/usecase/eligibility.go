package usecase

import "github.com/leadline/prospect-sync/internal/entity"

// Ineligibility reasons reported back to callers.
const (
	ReasonNoEmail            = "no_email"
	ReasonNotVerified        = "not_verified"
	ReasonFailedVerification = "failed_verification"
	ReasonEmailNotValid      = "email_not_valid"
	ReasonEmailNotFound      = "email_not_found"
)

type EligibilityDecision struct {
	Eligible bool
	Email    string
	Reason   string // set only when ineligible
}

// ResolveEligibleEmail decides whether a prospect's email may be submitted
// to the campaign platform. A verification record, when present, always
// overrides the raw email status.
//
//	only_verified=true,  risky=false: verification valid AND safe to send
//	only_verified=false, risky=false: verified rule, else raw status valid
//	only_verified=true,  risky=true : verification not invalid AND not unsafe
//	only_verified=false, risky=true : verified rule, else raw status found
//
// No email record at all is always ineligible.
func ResolveEligibleEmail(candidate *entity.EmailCandidate, opts entity.EligibilityOptions) EligibilityDecision {
	if candidate == nil || candidate.Address == "" {
		return ineligible(ReasonNoEmail)
	}

	if candidate.HasVerification() {
		if verificationPasses(candidate, opts.IncludeRiskyEmails) {
			return EligibilityDecision{Eligible: true, Email: candidate.Address}
		}
		return ineligible(ReasonFailedVerification)
	}

	if opts.IncludeOnlyVerified {
		return ineligible(ReasonNotVerified)
	}

	if opts.IncludeRiskyEmails {
		if candidate.SourceStatus != entity.EmailStatusNotFound {
			return EligibilityDecision{Eligible: true, Email: candidate.Address}
		}
		return ineligible(ReasonEmailNotFound)
	}

	if candidate.SourceStatus == entity.EmailStatusValid {
		return EligibilityDecision{Eligible: true, Email: candidate.Address}
	}
	return ineligible(ReasonEmailNotValid)
}

func verificationPasses(candidate *entity.EmailCandidate, includeRisky bool) bool {
	if includeRisky {
		return candidate.VerificationStatus != entity.VerificationInvalid &&
			candidate.SafeToSend != entity.SafeToSendNo
	}
	return candidate.VerificationStatus == entity.VerificationValid &&
		candidate.SafeToSend == entity.SafeToSendYes
}

func ineligible(reason string) EligibilityDecision {
	return EligibilityDecision{Reason: reason}
}
