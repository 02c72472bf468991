package exchange

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"serveo-backend/internal/models"

	"gorm.io/gorm"
)

// Refresher periodically fetches live rates, normalizes them to the supported
// set and publishes a new snapshot. Fetch failures keep the last known table;
// conversion never blocks on a fetch.
type Refresher struct {
	db       *gorm.DB
	apiURL   string
	base     string
	interval time.Duration
	client   *http.Client

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewRefresher(db *gorm.DB, apiURL, base string, interval, fetchTimeout time.Duration) *Refresher {
	return &Refresher{
		db:       db,
		apiURL:   apiURL,
		base:     base,
		interval: interval,
		client:   &http.Client{Timeout: fetchTimeout},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start loads the persisted table (if any), then refreshes on a fixed ticker
// until Stop is called.
func (r *Refresher) Start() {
	r.loadPersisted()

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		if err := r.RefreshNow(); err != nil {
			log.Printf("[WARN] exchange rate refresh failed, keeping last known rates: %v", err)
		}

		for {
			select {
			case <-ticker.C:
				if err := r.RefreshNow(); err != nil {
					log.Printf("[WARN] exchange rate refresh failed, keeping last known rates: %v", err)
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop shuts the refresh loop down and waits for it; an in-progress snapshot
// swap always completes or never happens.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

// RefreshNow fetches, normalizes, persists and publishes one new snapshot.
// Exposed so tests can trigger a refresh deterministically.
func (r *Refresher) RefreshNow() error {
	rates, err := r.fetch()
	if err != nil {
		return err
	}

	normalized := normalize(rates, r.base)
	now := time.Now()

	if r.db != nil {
		if err := r.persist(normalized, now); err != nil {
			return fmt.Errorf("could not persist exchange rates: %w", err)
		}
	}

	Publish(&Snapshot{Base: r.base, Rates: normalized, LastUpdated: now})
	return nil
}

type ratesResponse struct {
	Success *bool              `json:"success"`
	Rates   map[string]float64 `json:"rates"`
}

func (r *Refresher) fetch() (map[string]float64, error) {
	url := fmt.Sprintf("%s?base=%s", r.apiURL, r.base)
	resp, err := r.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange API returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Success != nil && !*body.Success {
		return nil, fmt.Errorf("exchange API returned unsuccessful response")
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("exchange API returned no rates")
	}
	return body.Rates, nil
}

// normalize filters the fetched table down to the supported set and pins the
// base currency at 1.0.
func normalize(rates map[string]float64, base string) map[string]float64 {
	out := make(map[string]float64, len(SupportedCurrencies))
	for _, code := range SupportedCurrencies {
		if v, ok := rates[code]; ok && v > 0 {
			out[code] = v
		}
	}
	out[base] = 1.0
	return out
}

func (r *Refresher) persist(rates map[string]float64, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for code, rate := range rates {
			row := models.ExchangeRate{Currency: code, Rate: rate, LastUpdated: at}
			res := tx.Model(&models.ExchangeRate{}).
				Where("currency = ?", code).
				Updates(map[string]interface{}{"rate": rate, "last_updated": at})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// loadPersisted restores the last persisted table so a restart does not fall
// back to the seed rates.
func (r *Refresher) loadPersisted() {
	if r.db == nil {
		return
	}
	var rows []models.ExchangeRate
	if err := r.db.Find(&rows).Error; err != nil || len(rows) == 0 {
		return
	}
	rates := make(map[string]float64, len(rows))
	last := time.Time{}
	for _, row := range rows {
		rates[row.Currency] = row.Rate
		if row.LastUpdated.After(last) {
			last = row.LastUpdated
		}
	}
	rates[r.base] = 1.0
	Publish(&Snapshot{Base: r.base, Rates: rates, LastUpdated: last})
}
