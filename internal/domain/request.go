package domain

// InspectionRequest is the root record of a client profile. All other
// client records hang off a request, directly or through a task.
type InspectionRequest struct {
	Meta
	ClientName          string `json:"client_name"`
	PropertyAddress     string `json:"property_address"`
	ClientContactNumber string `json:"client_contact_number,omitempty"`
	AgentContactNumber  string `json:"agent_contact_number,omitempty"`
	Memo                string `json:"memo,omitempty"`
	Urgent              bool   `json:"urgent"`
	ClaimNumber         string `json:"claim_number,omitempty"`
	Carrier             string `json:"carrier,omitempty"`
	Status              string `json:"status,omitempty"`
	CompanyCamURL       string `json:"companycam_url,omitempty"`
}
