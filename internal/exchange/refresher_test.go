package exchange

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"serveo-backend/internal/database"
	"serveo-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// resetSnapshot restores the seed table after tests that publish.
func resetSnapshot(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { Publish(seedSnapshot()) })
}

func TestRefreshNowPublishesAndPersists(t *testing.T) {
	resetSnapshot(t)
	db := newTestDB(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "USD", req.URL.Query().Get("base"))
		fmt.Fprint(w, `{"success":true,"rates":{"USD":1.0,"EUR":0.95,"JPY":151.2,"XYZ":9.9}}`)
	}))
	defer srv.Close()

	r := NewRefresher(db, srv.URL, "USD", time.Hour, time.Second)
	require.NoError(t, r.RefreshNow())

	s := Current()
	assert.Equal(t, 0.95, s.Rates["EUR"])
	assert.Equal(t, 151.2, s.Rates["JPY"])
	assert.NotContains(t, s.Rates, "XYZ")

	var row models.ExchangeRate
	require.NoError(t, db.First(&row, "currency = ?", "EUR").Error)
	assert.Equal(t, 0.95, row.Rate)
}

func TestRefreshNowUpdatesExistingRows(t *testing.T) {
	resetSnapshot(t)
	db := newTestDB(t)

	rate := 0.90
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintf(w, `{"rates":{"USD":1.0,"EUR":%.2f}}`, rate)
	}))
	defer srv.Close()

	r := NewRefresher(db, srv.URL, "USD", time.Hour, time.Second)
	require.NoError(t, r.RefreshNow())

	rate = 0.97
	require.NoError(t, r.RefreshNow())

	var count int64
	require.NoError(t, db.Model(&models.ExchangeRate{}).Where("currency = ?", "EUR").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var row models.ExchangeRate
	require.NoError(t, db.First(&row, "currency = ?", "EUR").Error)
	assert.Equal(t, 0.97, row.Rate)
}

func TestRefreshFailureKeepsLastRates(t *testing.T) {
	resetSnapshot(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	before := Current()
	r := NewRefresher(nil, srv.URL, "USD", time.Hour, time.Second)
	assert.Error(t, r.RefreshNow())
	assert.Same(t, before, Current())
}

func TestRefreshRejectsUnsuccessfulResponse(t *testing.T) {
	resetSnapshot(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success":false,"rates":{"EUR":0.9}}`)
	}))
	defer srv.Close()

	r := NewRefresher(nil, srv.URL, "USD", time.Hour, time.Second)
	assert.Error(t, r.RefreshNow())
}

func TestLoadPersistedRestoresTable(t *testing.T) {
	resetSnapshot(t)
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.ExchangeRate{Currency: "EUR", Rate: 0.88, LastUpdated: time.Now()}).Error)

	r := NewRefresher(db, "http://127.0.0.1:0", "USD", time.Hour, time.Second)
	r.loadPersisted()

	s := Current()
	assert.Equal(t, 0.88, s.Rates["EUR"])
	assert.Equal(t, 1.0, s.Rates["USD"])
}

func TestStartStop(t *testing.T) {
	resetSnapshot(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"rates":{"USD":1.0,"EUR":0.91}}`)
	}))
	defer srv.Close()

	r := NewRefresher(nil, srv.URL, "USD", time.Hour, time.Second)
	r.Start()
	r.Stop() // must not hang; double stop is safe
	r.Stop()
}
