package dto

type SearchProductsRequest struct {
	ProductIDs []string `json:"product_ids" validate:"required,min=1,max=100,dive,uuid_string"`
}

type SearchProductsResponse struct {
	Products []ProductDTO `json:"products"`
	NotFound []string     `json:"not_found"`
}

type ProductDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Brand    *string `json:"brand"`
	Price    string  `json:"price"`
	Stock    *int    `json:"stock"`
	IsActive bool    `json:"is_active"`
	InStock  bool    `json:"in_stock"`
}
