package http

// ErrorBody is the error envelope served to clients.
type ErrorBody struct {
	Error string `json:"error" example:"Invalid ticker: XYZ"`
}

// HealthStatus is served by the liveness probe.
type HealthStatus struct {
	Status  string `json:"status" example:"ok"`
	Models  int    `json:"models"`
	Tickers int    `json:"tickers"`
}
