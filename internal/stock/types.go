package stock

// Quote is the current trading snapshot returned to clients.
type Quote struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// PricePoint is a single (date, price) observation, historical or predicted.
// Dates use the YYYY-MM-DD form, prices are rounded to two decimals.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Prediction pairs the normalized history with the projected points.
type Prediction struct {
	HistoricalData []PricePoint `json:"historical_data"`
	PredictedData  []PricePoint `json:"predicted_data"`
}

// ResponseData is the payload half of the response envelope.
type ResponseData struct {
	Stock      Quote      `json:"stock"`
	Prediction Prediction `json:"prediction"`
}

// Response is the unified envelope for successful answers.
type Response struct {
	Status string       `json:"status"`
	Data   ResponseData `json:"data"`
}
