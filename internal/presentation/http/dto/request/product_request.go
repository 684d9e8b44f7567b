package request

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required,min=2,max=255"`
	Code          string  `json:"code" binding:"omitempty,max=100"`
	HSNCode       string  `json:"hsn_code" binding:"omitempty,max=20"`
	Unit          string  `json:"unit" binding:"omitempty,max=20"`
	Category      string  `json:"category" binding:"omitempty,max=100"`
	GSTPercentage float64 `json:"gst_percentage" binding:"min=0,max=100"`
	SellingPrice  float64 `json:"selling_price" binding:"min=0"`
	CostPrice     float64 `json:"cost_price" binding:"min=0"`
	MRP           float64 `json:"mrp" binding:"min=0"`
	Stock         float64 `json:"stock" binding:"min=0"`
	StockAlert    float64 `json:"stock_alert" binding:"min=0"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Code          *string  `json:"code" binding:"omitempty,min=1,max=100"`
	HSNCode       *string  `json:"hsn_code" binding:"omitempty,max=20"`
	Unit          *string  `json:"unit" binding:"omitempty,max=20"`
	Category      *string  `json:"category" binding:"omitempty,max=100"`
	GSTPercentage *float64 `json:"gst_percentage" binding:"omitempty,min=0,max=100"`
	SellingPrice  *float64 `json:"selling_price" binding:"omitempty,min=0"`
	CostPrice     *float64 `json:"cost_price" binding:"omitempty,min=0"`
	MRP           *float64 `json:"mrp" binding:"omitempty,min=0"`
	Stock         *float64 `json:"stock" binding:"omitempty,min=0"`
	StockAlert    *float64 `json:"stock_alert" binding:"omitempty,min=0"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	Category  string `form:"category"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}

// ImportProductRowRequest is a single product row in a bulk import payload
type ImportProductRowRequest struct {
	Name          string  `json:"name" binding:"required"`
	Code          string  `json:"code"`
	HSNCode       string  `json:"hsn_code"`
	Unit          string  `json:"unit"`
	Category      string  `json:"category"`
	GSTPercentage float64 `json:"gst_percentage"`
	SellingPrice  float64 `json:"selling_price"`
	CostPrice     float64 `json:"cost_price"`
	MRP           float64 `json:"mrp"`
	Stock         float64 `json:"stock"`
	StockAlert    float64 `json:"stock_alert"`
}

// ImportProductsRequest represents a bulk product import request
type ImportProductsRequest struct {
	Rows []ImportProductRowRequest `json:"rows" binding:"required,min=1,max=1000,dive"`
}
