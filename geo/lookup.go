// api/geo/lookup.go
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"spellbee/api/models"
)

const DefaultBaseURL = "http://ip-api.com"

const lookupTimeout = 3 * time.Second

// Client resolves an IP address to a coarse location via the ip-api.com
// JSON endpoint. Lookups are strictly best-effort: any failure, private
// address, or slow response degrades to "Unknown" instead of an error.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{baseURL: DefaultBaseURL, http: http.DefaultClient}
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: http.DefaultClient}
}

type lookupResponse struct {
	Status     string  `json:"status"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Lookup geolocates an IP address. Never returns an error; callers get
// UnknownLocation whenever the answer is not available.
func (c *Client) Lookup(ctx context.Context, ip string) models.Location {
	if !isPublicIP(ip) {
		return models.UnknownLocation()
	}

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/json/%s?fields=status,country,regionName,city,lat,lon", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.UnknownLocation()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Geolocation lookup failed for %s: %v", ip, err)
		return models.UnknownLocation()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Geolocation lookup for %s returned status %d", ip, resp.StatusCode)
		return models.UnknownLocation()
	}

	var parsed lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.Status != "success" {
		return models.UnknownLocation()
	}

	lat, lon := parsed.Lat, parsed.Lon
	return models.Location{
		Country:   orUnknown(parsed.Country),
		Region:    parsed.RegionName,
		City:      parsed.City,
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// isPublicIP filters out addresses that cannot be geolocated: empty
// strings, unparseable values, loopback, and RFC 1918/4193 ranges.
func isPublicIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast() {
		return false
	}
	return true
}
