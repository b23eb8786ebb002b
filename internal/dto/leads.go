package dto

// LeadFilter contains query parameters for the lead listing endpoint.
type LeadFilter struct {
	Q       string
	Tag     string
	Page    int
	PerPage int
}

// TagRequest adds a tag to a lead.
type TagRequest struct {
	Tag string `json:"tag"`
}

// UpdateEmailRequest replaces one address on a lead.
type UpdateEmailRequest struct {
	OldEmail string `json:"oldEmail"`
	NewEmail string `json:"newEmail"`
}

// DeleteManyRequest lists lead identifiers to remove.
type DeleteManyRequest struct {
	IDs []string `json:"ids"`
}
