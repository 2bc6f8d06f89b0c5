package db

import (
	"time"
)

type Underlying struct {
	Ticker    string    `json:"ticker"`
	LastPrice string    `json:"last_price"`
	UpdatedAt time.Time `json:"updated_at"`
}
