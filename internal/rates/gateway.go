// Package rates fetches live exchange rates from the external provider and
// absorbs every failure into a hardcoded fallback snapshot. Callers never
// see an error from this package; failure is signaled only through the
// Success flag.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cdJohnEl/PocketLens/internal/cache"
	"github.com/cdJohnEl/PocketLens/internal/currency"
)

const cacheKey = "exchange-rates"

// Result is the gateway response shape. Rates are units per 1 USD, as
// returned by the provider.
type Result struct {
	Success     bool               `json:"success"`
	Rates       map[string]float64 `json:"rates"`
	LastUpdated string             `json:"lastUpdated"`
	Message     string             `json:"message,omitempty"`
}

// fallbackRates is the static snapshot used when the provider is
// unreachable; one rate per supported code, USD base.
var fallbackRates = map[string]float64{
	"NGN": 1650,
	"USD": 1,
	"EUR": 0.85,
	"GBP": 0.73,
	"JPY": 110,
	"CAD": 1.25,
	"AUD": 1.35,
	"CHF": 0.92,
	"CNY": 6.45,
	"INR": 75,
}

type Gateway struct {
	url    string
	client *http.Client
	local  *cache.LRUCache[Result]
	redis  *redis.Client // optional second cache tier
	ttl    time.Duration
}

// NewGateway builds a gateway hitting the given provider URL, caching
// successful responses for ttl. redisClient may be nil.
func NewGateway(url string, ttl time.Duration, redisClient *redis.Client) *Gateway {
	return &Gateway{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		local:  cache.NewLRUCache[Result](1, ttl),
		redis:  redisClient,
		ttl:    ttl,
	}
}

// LocalCache exposes the in-process cache for cleanup registration.
func (g *Gateway) LocalCache() cache.Cleaner {
	return g.local
}

// Fetch returns the current rate table. Transport or parse failures are
// absorbed into the fallback snapshot with Success=false and a fresh
// timestamp; the method never returns an error.
func (g *Gateway) Fetch(ctx context.Context) Result {
	if res, ok := g.local.Get(cacheKey); ok {
		return res
	}
	if res, ok := g.fromRedis(ctx); ok {
		g.local.Set(cacheKey, res)
		return res
	}

	res, err := g.fetchLive(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Exchange rate fetch failed, using fallback rates", "error", err, "url", g.url)
		return Result{
			Success:     false,
			Rates:       fallbackRates,
			LastUpdated: time.Now().Format(time.RFC3339),
			Message:     "Using fallback rates due to API unavailability",
		}
	}

	g.local.Set(cacheKey, res)
	g.toRedis(ctx, res)
	return res
}

// Rate returns how many units of code one unit of the base currency (NGN)
// buys. Absent codes, a failed fetch, or a degenerate table all yield 1 so
// display formatting always has a usable multiplier.
func (g *Gateway) Rate(ctx context.Context, code string) float64 {
	if code == currency.BaseCurrency {
		return 1
	}
	res := g.Fetch(ctx)
	target := res.Rates[code]
	base := res.Rates[currency.BaseCurrency]
	if target <= 0 || base <= 0 {
		return 1
	}
	return target / base
}

func (g *Gateway) fetchLive(ctx context.Context) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build rates request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("rates provider returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
		Date  string             `json:"date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{}, fmt.Errorf("decode rates response: %w", err)
	}
	if len(payload.Rates) == 0 {
		return Result{}, fmt.Errorf("rates provider returned empty table")
	}

	return Result{
		Success:     true,
		Rates:       payload.Rates,
		LastUpdated: payload.Date,
	}, nil
}

func (g *Gateway) fromRedis(ctx context.Context) (Result, bool) {
	if g.redis == nil {
		return Result{}, false
	}
	raw, err := g.redis.Get(ctx, cacheKey).Result()
	if err != nil {
		return Result{}, false
	}
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return Result{}, false
	}
	return res, true
}

func (g *Gateway) toRedis(ctx context.Context, res Result) {
	if g.redis == nil {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := g.redis.SetEx(ctx, cacheKey, data, g.ttl).Err(); err != nil {
		slog.DebugContext(ctx, "Redis rate cache write failed", "error", err)
	}
}
