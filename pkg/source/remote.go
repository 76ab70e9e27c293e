package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/unicornviz/unicornviz/pkg/cache"
	"github.com/unicornviz/unicornviz/pkg/record"
)

// Default endpoints for the remote feeds. Each fetcher exposes its URL so
// tests can point it at a local server.
const (
	DefaultCryptoURL = "https://api.coingecko.com/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=250&page=1"
	DefaultQuakeURL  = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_hour.geojson"
	DefaultEventsURL = "https://api.github.com/events"
	DefaultCivicURL  = "https://data.cityofnewyork.us/resource/erm2-nwe9.json?$limit=500&$order=created_date%20DESC"
)

const fetchTimeout = 10 * time.Second

// defaultClient is shared by fetchers that are constructed without one.
var defaultClient = &http.Client{Timeout: fetchTimeout}

// getJSON fetches url and decodes the response body into v. Server-side
// failures are marked retryable and retried with backoff; anything else
// fails fast.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	if client == nil {
		client = defaultClient
	}
	return cache.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return cache.Retryable(fmt.Errorf("%w: %s returned %d", cache.ErrNetwork, url, resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s returned %d", cache.ErrNetwork, url, resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(v)
	})
}

// =============================================================================
// CryptoMarkets - cryptocurrency market feed
// =============================================================================

// CryptoMarkets maps a CoinGecko-style market listing onto records:
// market cap becomes valuation, the 24h price change drives growth rate.
// Impact score is left absent for the record model to fill.
type CryptoMarkets struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *CryptoMarkets) Name() string { return "crypto" }

// Fetch retrieves the market listing.
func (s *CryptoMarkets) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	url := s.URL
	if url == "" {
		url = DefaultCryptoURL
	}

	var coins []struct {
		Name      string  `json:"name"`
		MarketCap float64 `json:"market_cap"`
		Change24h float64 `json:"price_change_percentage_24h"`
	}
	if err := getJSON(ctx, s.Client, url, &coins); err != nil {
		return nil, fmt.Errorf("crypto feed: %w", err)
	}

	raws := make([]record.Raw, 0, len(coins))
	for _, c := range coins {
		if limit > 0 && len(raws) >= limit {
			break
		}
		raws = append(raws, record.Raw{
			record.FieldName:       c.Name,
			record.FieldValuation:  c.MarketCap / 1e9,
			record.FieldGrowthRate: c.Change24h*10 + 100,
			record.FieldCountry:    "Digital",
		})
	}
	return raws, nil
}

// =============================================================================
// Earthquakes - USGS real-time seismic feed
// =============================================================================

// Earthquakes maps the USGS GeoJSON feed onto records: magnitude scales
// valuation, impact, and growth; the epicenter supplies coordinates.
type Earthquakes struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *Earthquakes) Name() string { return "earthquakes" }

// Fetch retrieves recent seismic events.
func (s *Earthquakes) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	url := s.URL
	if url == "" {
		url = DefaultQuakeURL
	}

	var feed struct {
		Features []struct {
			Properties struct {
				Mag   float64 `json:"mag"`
				Place string  `json:"place"`
			} `json:"properties"`
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := getJSON(ctx, s.Client, url, &feed); err != nil {
		return nil, fmt.Errorf("earthquake feed: %w", err)
	}

	raws := make([]record.Raw, 0, len(feed.Features))
	for _, f := range feed.Features {
		if limit > 0 && len(raws) >= limit {
			break
		}
		mag := f.Properties.Mag
		raw := record.Raw{
			record.FieldName:        "Earthquake " + f.Properties.Place,
			record.FieldValuation:   mag * 2,
			record.FieldImpactScore: min(95, mag*20),
			record.FieldGrowthRate:  mag * 50,
			record.FieldCountry:     "Seismic",
		}
		if len(f.Geometry.Coordinates) >= 2 {
			raw[record.FieldLongitude] = f.Geometry.Coordinates[0]
			raw[record.FieldLatitude] = f.Geometry.Coordinates[1]
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// =============================================================================
// CodeEvents - public code-hosting activity feed
// =============================================================================

// CodeEvents maps public repository events onto records. Only the repo
// name carries signal; the numeric fields are filled by the record model.
type CodeEvents struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *CodeEvents) Name() string { return "events" }

// Fetch retrieves the public event stream.
func (s *CodeEvents) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	url := s.URL
	if url == "" {
		url = DefaultEventsURL
	}

	var events []struct {
		Repo struct {
			Name string `json:"name"`
		} `json:"repo"`
	}
	if err := getJSON(ctx, s.Client, url, &events); err != nil {
		return nil, fmt.Errorf("events feed: %w", err)
	}

	raws := make([]record.Raw, 0, len(events))
	for _, e := range events {
		if limit > 0 && len(raws) >= limit {
			break
		}
		raws = append(raws, record.Raw{
			record.FieldName:    "GitHub " + e.Repo.Name,
			record.FieldCountry: "Digital",
		})
	}
	return raws, nil
}

// =============================================================================
// CivicRequests - municipal open-data feed
// =============================================================================

// CivicRequests maps 311-style service requests onto records, keyed by
// complaint type and borough.
type CivicRequests struct {
	URL    string
	Client *http.Client
}

// Name implements Source.
func (s *CivicRequests) Name() string { return "civic" }

// Fetch retrieves recent service requests.
func (s *CivicRequests) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	url := s.URL
	if url == "" {
		url = DefaultCivicURL
	}

	var rows []struct {
		ComplaintType string `json:"complaint_type"`
		Borough       string `json:"borough"`
		Longitude     string `json:"longitude"`
		Latitude      string `json:"latitude"`
	}
	if err := getJSON(ctx, s.Client, url, &rows); err != nil {
		return nil, fmt.Errorf("civic feed: %w", err)
	}

	raws := make([]record.Raw, 0, len(rows))
	for _, r := range rows {
		if limit > 0 && len(raws) >= limit {
			break
		}
		raw := record.Raw{
			record.FieldName:    "NYC " + r.ComplaintType,
			record.FieldCountry: "USA",
		}
		if r.Longitude != "" {
			raw[record.FieldLongitude] = r.Longitude
		}
		if r.Latitude != "" {
			raw[record.FieldLatitude] = r.Latitude
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
