package request

// OrderFilterRequest represents order filter parameters for the admin listing
type OrderFilterRequest struct {
	Status    string `form:"status"`
	Phone     string `form:"phone"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// UpdateOrderStatusRequest advances an order's fulfilment status
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
