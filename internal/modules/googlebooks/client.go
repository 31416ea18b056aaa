// Package googlebooks is the metadata client for the Google Books volumes
// API. Every lookup fails soft: transport errors, non-200 responses and
// malformed payloads are logged and degrade to empty (or partial) results.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tsundoku-app/core/internal/config"
	"go.uber.org/zap"
)

const (
	// maxPerRequest is the API's page-size ceiling.
	maxPerRequest = 40
	// defaultMaxResults caps accumulation when the caller gives no limit.
	defaultMaxResults = 1000
)

// Client talks to the Google Books volumes API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

// New creates a metadata client from config.
func New(cfg config.GoogleBooksConfig, logger *zap.Logger) *Client {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = "https://www.googleapis.com/books/v1"
	}
	timeout := 15 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		http:     &http.Client{Timeout: timeout},
		logger:   logger.Named("GoogleBooks"),
	}
}

// SearchByISBN looks up volumes by identifier. An invalid or blank ISBN
// returns an empty list without touching the network.
func (c *Client) SearchByISBN(ctx context.Context, isbn string, maxResults int) []BookRecord {
	cleaned := CleanISBN(isbn)
	if cleaned == "" || !ValidISBN(cleaned) {
		return nil
	}
	return c.search(ctx, "isbn:"+cleaned, maxResults)
}

// SearchByTitle searches by free text; the author, when given, is appended
// to the query for partial matching. A blank title returns an empty list
// without touching the network.
func (c *Client) SearchByTitle(ctx context.Context, title, author string, maxResults int) []BookRecord {
	parts := make([]string, 0, 2)
	if v := strings.TrimSpace(title); v != "" {
		parts = append(parts, v)
	}
	if len(parts) == 0 {
		return nil
	}
	if v := strings.TrimSpace(author); v != "" {
		parts = append(parts, v)
	}
	return c.search(ctx, strings.Join(parts, " "), maxResults)
}

// GetByID fetches a single volume. A blank id returns nil without touching
// the network; any failure is logged and returns nil.
func (c *Client) GetByID(ctx context.Context, googleBooksID string) *BookRecord {
	id := strings.TrimSpace(googleBooksID)
	if id == "" {
		return nil
	}

	url := c.endpoint + "/volumes/" + neturl.PathEscape(id)
	body, ok := c.get(ctx, url)
	if !ok {
		return nil
	}

	var item volumeItem
	if err := json.Unmarshal(body, &item); err != nil {
		c.logger.Error("parse volume response", zap.String("id", id), zap.Error(err))
		return nil
	}
	record, ok := parseVolume(item)
	if !ok {
		return nil
	}
	return &record
}

// search pages through results, at most maxPerRequest per call, until the
// cap is reached, the API's totalItems is reached, or a short/empty page
// signals the end. A failure mid-pagination keeps whatever accumulated.
func (c *Client) search(ctx context.Context, query string, maxResults int) []BookRecord {
	limit := maxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	var all []BookRecord
	startIndex := 0

	for {
		remaining := limit - len(all)
		if remaining <= 0 {
			break
		}
		pageSize := maxPerRequest
		if remaining < pageSize {
			pageSize = remaining
		}

		params := neturl.Values{}
		params.Set("q", query)
		params.Set("maxResults", strconv.Itoa(pageSize))
		params.Set("startIndex", strconv.Itoa(startIndex))
		if c.apiKey != "" {
			params.Set("key", c.apiKey)
		}

		body, ok := c.get(ctx, c.endpoint+"/volumes?"+params.Encode())
		if !ok {
			break
		}

		var page volumesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			c.logger.Error("parse search response", zap.Error(err))
			break
		}

		records := parseVolumes(page.Items)
		if len(records) == 0 {
			break
		}
		all = append(all, records...)

		if page.TotalItems > 0 && len(all) >= page.TotalItems {
			break
		}
		if len(records) < pageSize {
			break
		}
		startIndex += pageSize
	}

	return all
}

// get performs one GET and returns the body on HTTP 200.
func (c *Client) get(ctx context.Context, url string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Error("build request", zap.Error(err))
		return nil, false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("google books request failed", zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("read response body", zap.Error(err))
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("google books api error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 500)),
		)
		return nil, false
	}
	return body, true
}

func parseVolumes(items []volumeItem) []BookRecord {
	records := make([]BookRecord, 0, len(items))
	for _, item := range items {
		if record, ok := parseVolume(item); ok {
			records = append(records, record)
		}
	}
	return records
}

// parseVolume normalizes one API item. Items without an id and title are
// dropped, which is not an error for the batch.
func parseVolume(item volumeItem) (BookRecord, bool) {
	info := item.VolumeInfo
	if item.ID == "" && info.Title == "" {
		return BookRecord{}, false
	}

	return BookRecord{
		GoogleBooksID: item.ID,
		Title:         info.Title,
		Author:        strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   info.Description,
		ISBN10:        findIdentifier(info.IndustryIdentifiers, "ISBN_10"),
		ISBN13:        findIdentifier(info.IndustryIdentifiers, "ISBN_13"),
		ImageURL:      bestImageURL(info.ImageLinks),
		PageCount:     info.PageCount,
		Language:      info.Language,
		Categories:    strings.Join(info.Categories, ", "),
	}, true
}

// findIdentifier returns the first identifier of the given type, in API
// order.
func findIdentifier(ids []industryIdentifier, typ string) string {
	for _, id := range ids {
		if id.Type == typ {
			return id.Identifier
		}
	}
	return ""
}

// bestImageURL picks the largest available image.
func bestImageURL(links imageLinks) string {
	for _, u := range []string{links.Large, links.Medium, links.Small, links.Thumbnail, links.SmallThumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s...", s[:maxLen])
}
