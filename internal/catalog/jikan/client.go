package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"pixelbook/internal/http-api/models"
)

const (
	baseURL = "https://api.jikan.moe/v4"

	// Rate limiting: Jikan allows 3 requests per second
	rateLimit = 3
	rateBurst = 5

	// Every synthesized volume sells at the standard price.
	standardPrice = 9.99
)

// VolumeFinder looks up a volume already known locally by its natural key.
// A nil finder means pure synthesis.
type VolumeFinder interface {
	FindByMangaAndNumber(ctx context.Context, mangaID int64, number int) (*models.Volume, error)
}

// Client talks to the Jikan REST API with rate limiting. Fetch failures on
// bulk operations degrade to empty results instead of propagating; a single
// malformed upstream record must not crash the caller.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new Jikan API client.
func NewClient() *Client {
	return &Client{
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(base string) *Client {
	c := NewClient()
	c.baseURL = base
	return c
}

// Search issues a keyword search and enriches every hit with a synthesized
// per-volume list (one entry per reported volume).
func (c *Client) Search(ctx context.Context, query string) ([]MangaSummary, error) {
	params := url.Values{}
	params.Set("q", query)

	var resp listEnvelope
	if err := c.doRequest(ctx, "/manga", params, &resp); err != nil {
		log.Printf("[Jikan] search %q degraded to empty result: %v", query, err)
		return []MangaSummary{}, nil
	}

	results := make([]MangaSummary, 0, len(resp.Data))
	for i := range resp.Data {
		m := &resp.Data[i]
		count := m.volumeCount()

		volumes := make([]VolumeSummary, 0, count)
		for n := 1; n <= count; n++ {
			volumes = append(volumes, VolumeSummary{
				MalID:     m.MalID,
				Number:    n,
				Title:     fmt.Sprintf("%s Volume %d", m.Title, n),
				CoverURL:  m.coverURL(),
				ISBN:      pseudoISBN(m.MalID, n),
				PageCount: estimatePageCount(),
				Price:     standardPrice,
			})
		}

		results = append(results, MangaSummary{
			MalID:       m.MalID,
			Title:       m.Title,
			Synopsis:    m.Synopsis,
			Score:       m.Score,
			Status:      m.Status,
			CoverURL:    m.coverURL(),
			VolumeCount: count,
			VolumesList: volumes,
		})
	}
	return results, nil
}

// Popular fetches a top-manga page and reshapes each manga into a single
// representative volume (the last one by count). The popular feed is
// volume-shaped on purpose: the storefront sells volumes, not series.
func (c *Client) Popular(ctx context.Context, page, limit int) ([]VolumeSummary, error) {
	params := url.Values{}
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp listEnvelope
	if err := c.doRequest(ctx, "/top/manga", params, &resp); err != nil {
		log.Printf("[Jikan] popular page %d degraded to empty result: %v", page, err)
		return []VolumeSummary{}, nil
	}

	results := make([]VolumeSummary, 0, len(resp.Data))
	for i := range resp.Data {
		m := &resp.Data[i]
		number := m.volumeCount() // last volume

		results = append(results, VolumeSummary{
			MalID:      m.MalID,
			MangaTitle: m.Title,
			Number:     number,
			Title:      fmt.Sprintf("%s Volume %d", m.Title, number),
			CoverURL:   m.coverURL(),
			ISBN:       pseudoISBN(m.MalID, number),
			PageCount:  estimatePageCount(),
			Price:      standardPrice,
			Synopsis:   m.Synopsis,
			Score:      m.Score,
			Status:     m.Status,
		})
	}
	return results, nil
}

// MangaDetails fetches one manga's full record. A backend response without a
// data payload returns (nil, nil); absence is not an error, and callers rely
// on that contract.
func (c *Client) MangaDetails(ctx context.Context, malID int64) (*models.Manga, error) {
	data, err := c.fetchFull(ctx, malID)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	manga := &models.Manga{
		MalID:    &data.MalID,
		Title:    data.Title,
		Synopsis: data.Synopsis,
		CoverURL: data.coverURL(),
	}
	if len(data.Authors) > 0 {
		manga.Author = &data.Authors[0].Name
	}
	if d := isoDate(data.Published.From); d != nil {
		manga.StartDate = d
	}
	if d := isoDate(data.Published.To); d != nil {
		manga.EndDate = d
	}
	return manga, nil
}

// Volumes materializes the full volume range 1..count for a manga. Volumes the
// finder already knows are reused as-is; the rest are synthesized with release
// dates spread evenly across the publication range. Any failure degrades to an
// empty list.
func (c *Client) Volumes(ctx context.Context, malID int64, manga *models.Manga, find VolumeFinder) ([]models.Volume, error) {
	data, err := c.fetchFull(ctx, malID)
	if err != nil {
		log.Printf("[Jikan] volumes for manga %d degraded to empty result: %v", malID, err)
		return []models.Volume{}, nil
	}
	if data == nil {
		return []models.Volume{}, nil
	}

	total := data.volumeCount()
	startDate := isoDate(data.Published.From)
	endDate := isoDate(data.Published.To)

	volumes := make([]models.Volume, 0, total)
	for n := 1; n <= total; n++ {
		if find != nil {
			existing, err := find.FindByMangaAndNumber(ctx, manga.ID, n)
			if err == nil && existing != nil {
				volumes = append(volumes, *existing)
				continue
			}
		}

		v := models.Volume{
			MangaID:   manga.ID,
			Number:    n,
			Title:     fmt.Sprintf("%s Volume %d", manga.Title, n),
			MalID:     &malID,
			CoverURL:  manga.CoverURL,
			ISBN:      ptr(pseudoISBN(malID, n)),
			PageCount: ptr(estimatePageCount()),
			Price:     standardPrice,
		}
		if rd := estimateReleaseDate(startDate, endDate, total, n); rd != nil {
			v.ReleaseDate = rd
		}
		volumes = append(volumes, v)
	}
	return volumes, nil
}

// VolumeDetail synthesizes a single volume. Returns (nil, nil) when the manga
// is unknown upstream or number exceeds the reported volume total.
func (c *Client) VolumeDetail(ctx context.Context, malID int64, number int) (*models.Volume, error) {
	data, err := c.fetchFull(ctx, malID)
	if err != nil {
		log.Printf("[Jikan] volume detail %d/%d degraded to not found: %v", malID, number, err)
		return nil, nil
	}
	if data == nil {
		return nil, nil
	}
	if number > data.volumeCount() {
		return nil, nil
	}

	v := &models.Volume{
		Number:    number,
		Title:     fmt.Sprintf("%s - Volume %d", data.Title, number),
		MalID:     &malID,
		CoverURL:  data.coverURL(),
		ISBN:      ptr(pseudoISBN(malID, number)),
		PageCount: ptr(estimatePageCount()),
		Price:     standardPrice,
	}
	if rd := approximateReleaseDate(data.Published.String, number); rd != nil {
		v.ReleaseDate = rd
	}
	return v, nil
}

// fetchFull loads /manga/{id}/full. Nil data means the upstream has no record.
func (c *Client) fetchFull(ctx context.Context, malID int64) (*mangaData, error) {
	var resp mangaEnvelope
	if err := c.doRequest(ctx, fmt.Sprintf("/manga/%d/full", malID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// doRequest performs a rate-limited GET and decodes the JSON body. There is no
// retry loop: upstream flakiness is handled synchronously by the caller.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// treated the same as an empty data payload
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// ============================================
// SYNTHESIS HELPERS
// ============================================

// pseudoISBN derives a deterministic stand-in ISBN from the external id and
// volume number, matching the "978-" bookland prefix shape.
func pseudoISBN(malID int64, number int) string {
	return fmt.Sprintf("978-%d", 1000000000+malID*100+int64(number))
}

// estimatePageCount returns a cosmetic page count in [150,250). Callers must
// not treat it as authoritative.
func estimatePageCount() int {
	return 150 + rand.Intn(100)
}

// estimateReleaseDate spreads the volumes evenly across the publication range.
// Falls back to the raw start date when the range cannot be computed.
func estimateReleaseDate(startDate, endDate *string, totalVolumes, number int) *string {
	if startDate == nil {
		return nil
	}
	if endDate != nil && totalVolumes > 0 {
		start, err1 := time.Parse("2006-01-02", *startDate)
		end, err2 := time.Parse("2006-01-02", *endDate)
		if err1 == nil && err2 == nil && !end.Before(start) {
			totalDays := int(end.Sub(start).Hours() / 24)
			daysPerVolume := totalDays / totalVolumes
			d := start.AddDate(0, 0, daysPerVolume*(number-1)).Format("2006-01-02")
			return &d
		}
	}
	return startDate
}

// approximateReleaseDate extracts the trailing year of the human-readable
// publication string and shifts the month with the volume number.
func approximateReleaseDate(publishedString *string, number int) *string {
	if publishedString == nil || len(*publishedString) <= 4 {
		return nil
	}
	s := *publishedString
	var year int
	if _, err := fmt.Sscanf(s[len(s)-4:], "%d", &year); err != nil {
		return nil
	}
	d := fmt.Sprintf("%d-%02d-01", year, 1+number%12)
	return &d
}

// isoDate truncates a Jikan ISO timestamp to its YYYY-MM-DD prefix.
func isoDate(ts *string) *string {
	if ts == nil || len(*ts) < 10 {
		return nil
	}
	d := (*ts)[:10]
	return &d
}

func ptr[T any](v T) *T {
	return &v
}
