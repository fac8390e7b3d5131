package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"mtg_collection_tools/internal/config"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// NamedMode selects how /cards/named matches the name.
type NamedMode string

const (
	NamedFuzzy NamedMode = "fuzzy"
	NamedExact NamedMode = "exact"
)

const searchCacheTTL = time.Hour

type Client struct {
	cfg          config.ScryfallConfig
	baseURL      string
	client       *http.Client
	searchCache  *expirable.LRU[string, cachedSearch]
	limiter      *rate.Limiter
	apiCallCount int64
	apiCallMutex sync.Mutex
}

type cachedSearch struct {
	cards    []Card
	notFound bool
}

// NewClient builds a client; per-call timeouts come from cfg, the underlying
// http.Client has none of its own.
func NewClient(cfg config.ScryfallConfig) *Client {
	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.RequestBurst, 1))
	}
	if cfg.CacheSize > 0 {
		c.searchCache = expirable.NewLRU[string, cachedSearch](cfg.CacheSize, nil, searchCacheTTL)
	}
	return c
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// GetCard looks a printing up by its Scryfall id.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.CardTimeout)
	defer cancel()

	var card Card
	if err := c.getJSON(ctx, "/cards/"+url.PathEscape(id), nil, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// SearchPrints runs an exact-name search across all printings of name. Only
// the first result page is returned.
func (c *Client) SearchPrints(ctx context.Context, name string) ([]Card, error) {
	if c.searchCache != nil {
		if cached, ok := c.searchCache.Get(name); ok {
			log.Debug().Str("card", name).Msg("Search served from cache")
			if cached.notFound {
				return nil, ErrNotFound
			}
			return cached.cards, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SearchTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", `!"`+name+`"`)
	params.Set("unique", "prints")

	var list List
	err := c.getJSON(ctx, "/cards/search", params, &list)
	switch {
	case errors.Is(err, ErrNotFound):
		c.remember(name, cachedSearch{notFound: true})
		return nil, err
	case err != nil:
		return nil, err
	}

	log.Debug().
		Str("card", name).
		Int("results", len(list.Data)).
		Bool("has_more", list.HasMore).
		Msg("Search completed")

	c.remember(name, cachedSearch{cards: list.Data})
	return list.Data, nil
}

func (c *Client) remember(name string, entry cachedSearch) {
	if c.searchCache != nil {
		c.searchCache.Add(name, entry)
	}
}

// NamedCard asks /cards/named for the single best match of name.
func (c *Client) NamedCard(ctx context.Context, name string, mode NamedMode) (*Card, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.NamedTimeout)
	defer cancel()

	if mode != NamedExact {
		mode = NamedFuzzy
	}
	params := url.Values{}
	params.Set(string(mode), name)

	var card Card
	if err := c.getJSON(ctx, "/cards/named", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Download streams the body at rawURL into w.
func (c *Client) Download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ImageTimeout)
	defer cancel()

	resp, err := c.do(ctx, rawURL, "*/*")
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read image: %w", err)
	}
	return n, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := c.do(ctx, endpoint, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request rate limit: %w", err)
	}
	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Details == "" {
		apiErr.Details = strings.TrimSpace(string(body))
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
