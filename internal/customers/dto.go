package customers

type CreateCustomerRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Contact   *string `json:"contact,omitempty" validate:"omitempty,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	VATNumber *string `json:"vat_number,omitempty" validate:"omitempty,max=50"`
	CRNumber  *string `json:"cr_number,omitempty" validate:"omitempty,max=50"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Contact   *string `json:"contact,omitempty" validate:"omitempty,max=200"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	VATNumber *string `json:"vat_number,omitempty" validate:"omitempty,max=50"`
	CRNumber  *string `json:"cr_number,omitempty" validate:"omitempty,max=50"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
