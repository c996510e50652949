package dto

// UpdateProfileRequest sets the issuer block printed on invoices. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name"`
	CompanyName *string `json:"company_name"`
	SIRET       *string `json:"siret"`
	Address     *string `json:"address"`
}
