package exchange

import (
	"math"
	"sync/atomic"
	"time"

	"serveo-backend/internal/apperr"
)

// SupportedCurrencies is the fixed set the engine converts between. Rates are
// always expressed relative to the base currency (rate[base] = 1.0).
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "RON", "CAD", "AUD", "JPY", "CNY", "AED"}

// Snapshot is an immutable rate table. The refresher publishes whole new
// snapshots; readers never observe a partial update.
type Snapshot struct {
	Base        string
	Rates       map[string]float64
	LastUpdated time.Time
}

var current atomic.Pointer[Snapshot]

func init() {
	current.Store(seedSnapshot())
}

// seedSnapshot is the fallback table used until the first successful refresh.
func seedSnapshot() *Snapshot {
	return &Snapshot{
		Base: "USD",
		Rates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.92,
			"GBP": 0.79,
			"INR": 83.12,
			"RON": 4.57,
			"CAD": 1.36,
			"AUD": 1.52,
			"JPY": 149.50,
			"CNY": 7.24,
			"AED": 3.67,
		},
		LastUpdated: time.Now(),
	}
}

// Current returns the latest published snapshot.
func Current() *Snapshot {
	return current.Load()
}

// Publish atomically replaces the active snapshot.
func Publish(s *Snapshot) {
	current.Store(s)
}

func Supported(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// Convert translates an amount between currencies through the base currency
// and rounds to 2 decimals. Unknown codes are rejected rather than silently
// treated as rate 1.0.
func Convert(amount float64, from, to string, s *Snapshot) (float64, error) {
	if from == to {
		return amount, nil
	}
	fromRate, ok := s.Rates[from]
	if !ok || fromRate == 0 {
		return 0, apperr.Validationf("unknown currency code %q", from)
	}
	toRate, ok := s.Rates[to]
	if !ok {
		return 0, apperr.Validationf("unknown currency code %q", to)
	}
	converted := amount / fromRate * toRate
	return round2(converted), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
