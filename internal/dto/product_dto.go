package dto

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
	PriceCLP    int     `json:"priceCLP"    validate:"min=0"`
	Stock       int     `json:"stock"       validate:"min=0"`
	ImageURL    *string `json:"imageUrl"`
}

type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCLP    *int    `json:"priceCLP"    validate:"omitempty,min=0"`
	ImageURL    *string `json:"imageUrl"`
}

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCLP    int     `json:"priceCLP"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Active      bool    `json:"active"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}
