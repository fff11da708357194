package models

// StockInfoRequest is the query of GET /get_stock_info.
type StockInfoRequest struct {
	Ticker string `query:"ticker" validate:"required,max=16,printascii"`
}

// RefreshRequest is the path of POST /refresh_stock_info/:ticker.
type RefreshRequest struct {
	Ticker string `param:"ticker" validate:"required,max=16,printascii"`
}
