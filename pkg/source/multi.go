package source

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/unicornviz/unicornviz/pkg/record"
)

// minLiveRows is the smallest combined live dataset worth rendering.
// Below this the live source tops up from the synthetic generator so
// the layouts have enough points to show structure.
const minLiveRows = 100

// Per-feed caps keep any one feed from dominating the combined set.
const (
	capCrypto = 500
	capQuakes = 200
	capEvents = 300
	capCivic  = 500
)

// Live combines the remote feeds into one best-effort source. Feeds
// that fail are logged and skipped; the remaining rows are returned in
// feed order.
type Live struct {
	feeds  []Source
	logger *log.Logger
}

// LiveOption configures a Live source.
type LiveOption func(*Live)

// WithFeeds replaces the default feed set. Useful for tests and for
// trimming feeds that are unreachable in a given deployment.
func WithFeeds(feeds ...Source) LiveOption {
	return func(l *Live) { l.feeds = feeds }
}

// WithLiveLogger sets the logger used for per-feed failures.
func WithLiveLogger(logger *log.Logger) LiveOption {
	return func(l *Live) { l.logger = logger }
}

// NewLive builds the combined live source with the default feeds.
func NewLive(opts ...LiveOption) *Live {
	l := &Live{
		feeds: []Source{
			&CryptoMarkets{},
			&Earthquakes{},
			&CodeEvents{},
			&CivicRequests{},
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name implements Source.
func (l *Live) Name() string { return NameLive }

// feedCap returns the per-feed row cap.
func feedCap(s Source) int {
	switch s.(type) {
	case *CryptoMarkets:
		return capCrypto
	case *Earthquakes:
		return capQuakes
	case *CodeEvents:
		return capEvents
	case *CivicRequests:
		return capCivic
	default:
		return capCivic
	}
}

// Fetch queries every feed and concatenates the results. A feed error
// never fails the fetch; if the combined set is still too small the
// synthetic generator fills the gap.
func (l *Live) Fetch(ctx context.Context, limit int) ([]record.Raw, error) {
	var combined []record.Raw
	for _, feed := range l.feeds {
		n := feedCap(feed)
		if limit > 0 && limit-len(combined) < n {
			n = limit - len(combined)
		}
		if n <= 0 {
			break
		}

		rows, err := feed.Fetch(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.logger.Warn("live feed failed, skipping", "feed", feed.Name(), "error", err)
			continue
		}
		l.logger.Debug("live feed fetched", "feed", feed.Name(), "rows", len(rows))
		combined = append(combined, rows...)
	}

	if len(combined) < minLiveRows {
		want := minLiveRows - len(combined)
		if limit > 0 && limit-len(combined) < want {
			want = limit - len(combined)
		}
		if want > 0 {
			l.logger.Info("live data sparse, topping up with synthetic rows",
				"live", len(combined), "synthetic", want)
			synthetic, _ := (&Synthetic{}).Fetch(ctx, want)
			combined = append(combined, synthetic...)
		}
	}
	return combined, nil
}
