package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"VN30Radar/internal/model"
)

// VCIFetcher implements Fetcher against a VCI-compatible REST gateway.
type VCIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVCIFetcher creates a fetcher with optional proxy support.
func NewVCIFetcher(baseURL, apiKey, proxyURL string) *VCIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &VCIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *VCIFetcher) Name() string { return "vci" }

// vciBar is the expected JSON shape of one history bar.
type vciBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *VCIFetcher) FetchDailyBars(symbol string, start, end time.Time) ([]model.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/api/v1/history?symbol=%s&resolution=1D&from=%d&to=%d",
		f.BaseURL, url.QueryEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vci fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vci: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []vciBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("vci decode: %w", err)
	}

	bars := make([]model.PriceBar, 0, len(raw))
	for _, b := range raw {
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue // null bars on holidays
		}
		bars = append(bars, model.PriceBar{
			Date:   time.Unix(b.Timestamp, 0),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
