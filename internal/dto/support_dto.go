package dto

// SupportRequest is a help-desk submission relayed to the support inbox.
type SupportRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Category string `json:"category" validate:"required,max=64"`
	Issue    string `json:"issue" validate:"required,min=10,max=4000"`
}

// SupportResponse acknowledges a submission with a trackable reference.
type SupportResponse struct {
	ReferenceID string `json:"referenceId"`
}
