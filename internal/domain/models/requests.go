package models

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

type QuoteRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20"`
}

type PredictRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20"`
}

type SignalRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20"`
	Type   string `query:"type" json:"type" default:"balanced" validate:"oneof=aggressive balanced long_term"`
}

type ChartRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=5,lte=365"`
}

type TrainRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,max=20"`
	Async  bool   `query:"async" json:"async"`
}

type AnalyzeRequest struct {
	Symbol      string  `query:"symbol" json:"symbol" validate:"required,max=20"`
	CompanyName string  `query:"company" json:"company"`
	Intent      string  `query:"intent" json:"intent" default:"analyze" validate:"oneof=buy sell hold analyze"`
	Quantity    int     `query:"quantity" json:"quantity" validate:"gte=0"`
	Type        string  `query:"type" json:"type" default:"balanced" validate:"oneof=aggressive balanced long_term"`
	Budget      float64 `query:"budget" json:"budget" validate:"gte=0"`
}

type AskRequest struct {
	Text   string  `json:"text" validate:"required,max=500"`
	Type   string  `json:"type" default:"balanced" validate:"oneof=aggressive balanced long_term"`
	Budget float64 `json:"budget" validate:"gte=0"`
}
