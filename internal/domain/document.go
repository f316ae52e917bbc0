package domain

// DocumentCategory classifies an uploaded client document.
type DocumentCategory string

const (
	CategoryCarrierEstimate    DocumentCategory = "Carrier Estimate"
	CategoryPolicy             DocumentCategory = "Policy"
	CategoryContractorEstimate DocumentCategory = "Contractor Estimate"
	CategoryOther              DocumentCategory = "Other"
)

// Valid reports whether c is one of the known categories.
func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryCarrierEstimate, CategoryPolicy, CategoryContractorEstimate, CategoryOther:
		return true
	}
	return false
}

// ClientDocument is a stored file attached to an inspection request.
type ClientDocument struct {
	Meta
	InspectionRequestID string           `json:"inspection_request_id"`
	DocumentName        string           `json:"document_name"`
	OriginalFilename    string           `json:"original_filename,omitempty"`
	FileURL             string           `json:"file_url"`
	DocumentCategory    DocumentCategory `json:"document_category"`
	FileType            string           `json:"file_type,omitempty"`
	FileSize            int64            `json:"file_size,omitempty"`
}
