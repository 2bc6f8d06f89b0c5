package data

// Quote is the last traded price of an underlying.
type Quote struct {
	Ticker    string  `json:"ticker"`
	LastPrice float64 `json:"last_price"`
}

// RateQuote is a zero rate, in decimal, for a maturity in years.
type RateQuote struct {
	Maturity float64 `json:"maturity"`
	Rate     float64 `json:"rate"`
}

// VolQuote is an implied volatility observed at a log-moneyness and maturity.
type VolQuote struct {
	LogMoneyness float64 `json:"log_moneyness"`
	Maturity     float64 `json:"maturity"`
	Ivol         float64 `json:"ivol"`
}

// MarketFile is the layout of a market fixture on disk.
type MarketFile struct {
	Quotes []Quote     `json:"quotes"`
	Rates  []RateQuote `json:"rates"`
	Vols   []VolQuote  `json:"vols"`
}
