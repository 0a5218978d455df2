package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge is one entry of the ledger's charge directory.
type Charge struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Active bool            `json:"active"`
}

// Fee is the resolved charge for one transaction category.
type Fee struct {
	Amount decimal.Decimal `json:"amount"`
	Active bool            `json:"active"`
}

// FeeSchedule maps transaction categories to their resolved charge.
// Fetched once per session and cached until the TTL expires.
type FeeSchedule struct {
	Fees      map[Category]Fee `json:"fees"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// Expired reports whether the schedule is older than ttl.
func (s *FeeSchedule) Expired(ttl time.Duration) bool {
	return time.Since(s.FetchedAt) > ttl
}
