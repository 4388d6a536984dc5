package request

// ProductFilterRequest represents product filter parameters for the catalog
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
