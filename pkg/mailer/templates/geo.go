package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Geo is the coarse location of a request address.
type Geo struct {
	City     string
	Region   string
	Country  string
	Timezone string
}

// Label renders the non-empty parts as "City, Region, Country".
func (g Geo) Label() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{g.City, g.Region, g.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (Geo, error)
}

var ErrNotRoutable = errors.New("address is not publicly routable")

// IPAPIResolver looks addresses up on ip-api.com. Private and loopback
// addresses fail with ErrNotRoutable before any request is made.
type IPAPIResolver struct {
	Client  *http.Client
	BaseURL string // defaults to http://ip-api.com
}

type ipAPIResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
	Timezone   string `json:"timezone"`
}

func (r IPAPIResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	addr := net.ParseIP(strings.TrimSpace(ip))
	if addr == nil || addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() {
		return Geo{}, fmt.Errorf("%w: %q", ErrNotRoutable, ip)
	}
	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = "http://ip-api.com"
	}

	url := base + "/json/" + addr.String() + "?fields=status,message,country,regionName,city,timezone"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Geo{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Geo{}, fmt.Errorf("geo lookup: %s", resp.Status)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Geo{}, fmt.Errorf("geo lookup: %w", err)
	}
	if !strings.EqualFold(body.Status, "success") {
		return Geo{}, fmt.Errorf("geo lookup: %s", body.Message)
	}
	return Geo{City: body.City, Region: body.RegionName, Country: body.Country, Timezone: body.Timezone}, nil
}

// CachedResolver memoizes successful lookups for TTL. The worker sees the
// same few operator-facing addresses repeatedly and ip-api.com is rate limited.
type CachedResolver struct {
	Next GeoResolver
	TTL  time.Duration

	mu      sync.Mutex
	entries map[string]cachedGeo
}

type cachedGeo struct {
	geo Geo
	at  time.Time
}

func NewCachedResolver(next GeoResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{Next: next, TTL: ttl, entries: make(map[string]cachedGeo)}
}

func (c *CachedResolver) Lookup(ctx context.Context, ip string) (Geo, error) {
	now := time.Now()
	c.mu.Lock()
	e, ok := c.entries[ip]
	c.mu.Unlock()
	if ok && now.Sub(e.at) < c.TTL {
		return e.geo, nil
	}

	g, err := c.Next.Lookup(ctx, ip)
	if err != nil {
		return Geo{}, err
	}
	c.mu.Lock()
	c.entries[ip] = cachedGeo{geo: g, at: now}
	c.mu.Unlock()
	return g, nil
}
