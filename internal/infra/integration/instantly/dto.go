package instantly

// Lead is the platform's record of a prospect enrolled in a campaign.
// LinkedinID comes from the lead's custom variables; leads created outside
// our system usually don't carry it.
type Lead struct {
	ID         string
	CampaignID string
	Email      string
	LinkedinID string
	Custom     map[string]string
}

type CreateLeadInput struct {
	Email       string
	FirstName   string
	LastName    string
	CompanyName string
	LinkedinID  string
	Custom      map[string]string
}

type UpdateLeadInput struct {
	Email      string
	LinkedinID string
	Custom     map[string]string
}

// customLinkedinKey is the custom-variable slot both sides agree on.
const customLinkedinKey = "linkedin_id"

// ---- wire types ----

type leadPayload struct {
	ID         string            `json:"id"`
	CampaignID string            `json:"campaign_id"`
	Email      string            `json:"email"`
	Custom     map[string]string `json:"custom_variables,omitempty"`
}

func (p leadPayload) toLead() Lead {
	lead := Lead{
		ID:         p.ID,
		CampaignID: p.CampaignID,
		Email:      p.Email,
		Custom:     p.Custom,
	}
	if p.Custom != nil {
		lead.LinkedinID = p.Custom[customLinkedinKey]
	}
	return lead
}

type listLeadsResponse struct {
	Items             []leadPayload `json:"items"`
	NextStartingAfter string        `json:"next_starting_after,omitempty"`
}

type createLeadRequest struct {
	CampaignID  string            `json:"campaign_id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
	Custom      map[string]string `json:"custom_variables,omitempty"`

	// Without these the platform either rejects duplicates with a 400 or
	// silently merges them into an existing lead, and the id we get back
	// would not be ours.
	SkipDuplicateCheck bool `json:"skip_duplicate_check"`
	SkipVerification   bool `json:"skip_verification"`
}

type createLeadResponse struct {
	ID string `json:"id"`
}

type updateLeadRequest struct {
	Email  string            `json:"email,omitempty"`
	Custom map[string]string `json:"custom_variables,omitempty"`
}

type apiErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e apiErrorResponse) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}
