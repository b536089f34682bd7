package usecase

import (
	"github.com/leadline/prospect-sync/internal/entity"
	"github.com/leadline/prospect-sync/internal/infra/integration/instantly"
)

// PlannedInsert tracks a platform lead that has no local row yet.
// The lead already exists remotely, so the insert is local-only.
type PlannedInsert struct {
	ProspectID     string
	ExternalLeadID string
	Email          string
}

// PlannedRepair re-links a row to the lead that actually carries its
// prospect. A repair never changes which prospect the row refers to.
type PlannedRepair struct {
	Row               entity.MembershipRow
	NewExternalLeadID string
}

// ChangeSet is the ordered outcome of one planning run. It is produced
// fresh per reconciliation pass and never persisted.
type ChangeSet struct {
	Deletes []entity.MembershipRow
	Inserts []PlannedInsert
	Repairs []PlannedRepair

	// InSync counts rows that needed nothing.
	InSync int

	// SkippedDuplicateLeads holds ids of remote leads sharing a prospect
	// with an earlier lead in listing order. Only the first one counts;
	// creating rows for the rest would break the one-row-per-prospect key.
	SkippedDuplicateLeads []string
}

func (cs ChangeSet) Empty() bool {
	return len(cs.Deletes) == 0 && len(cs.Inserts) == 0 && len(cs.Repairs) == 0
}

// PlanReconciliation diffs the local membership rows of one campaign
// against the platform's lead list for that campaign. The platform is
// authoritative for whether a membership still exists; the local prospect
// binding is authoritative for who a row refers to, so drift is healed but
// rows are never rewired across prospects.
//
// Rules, per local row:
//   - the first remote lead carrying the row's prospect and the stored id
//     agree: in sync.
//   - such a lead exists but under a different id (stored id vanished or
//     got rewired): repair to that lead's id.
//   - no remote lead carries the row's prospect: delete, unless the row is
//     still PENDING (external id empty), which means an add is in flight.
//
// Remote leads without a prospect linkedin id were created outside this
// system and are ignored. Tracked leads with no local row become inserts.
func PlanReconciliation(local []entity.MembershipRow, remote []instantly.Lead) ChangeSet {
	var cs ChangeSet

	// 1. Index remote leads by prospect, first in listing order wins.
	leadByProspect := make(map[string]instantly.Lead, len(remote))
	for _, lead := range remote {
		if lead.LinkedinID == "" {
			continue
		}
		if _, seen := leadByProspect[lead.LinkedinID]; seen {
			cs.SkippedDuplicateLeads = append(cs.SkippedDuplicateLeads, lead.ID)
			continue
		}
		leadByProspect[lead.LinkedinID] = lead
	}

	// 2. Walk local rows: keep, repair or delete.
	localByProspect := make(map[string]struct{}, len(local))
	for _, row := range local {
		localByProspect[row.ProspectID] = struct{}{}

		lead, hasMatch := leadByProspect[row.ProspectID]
		switch {
		case hasMatch && lead.ID == row.ExternalLeadID:
			cs.InSync++
		case hasMatch:
			cs.Repairs = append(cs.Repairs, PlannedRepair{Row: row, NewExternalLeadID: lead.ID})
		case row.ExternalLeadID == "":
			// Add still in flight, leave the pending row alone.
		default:
			cs.Deletes = append(cs.Deletes, row)
		}
	}

	// 3. Tracked remote leads with no local row become local inserts.
	for _, lead := range remote {
		if lead.LinkedinID == "" {
			continue
		}
		if first, ok := leadByProspect[lead.LinkedinID]; !ok || first.ID != lead.ID {
			continue // duplicate, already recorded
		}
		if _, exists := localByProspect[lead.LinkedinID]; exists {
			continue
		}
		cs.Inserts = append(cs.Inserts, PlannedInsert{
			ProspectID:     lead.LinkedinID,
			ExternalLeadID: lead.ID,
			Email:          lead.Email,
		})
	}

	return cs
}
