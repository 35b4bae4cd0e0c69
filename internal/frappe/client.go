package frappe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"versioned-translator/internal/domain"
	"versioned-translator/redis"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client talks to the host framework's REST API.
type Client struct {
	http     *resty.Client
	cache    *redis.Cache
	cacheTTL time.Duration
	log      zerolog.Logger
}

type Options struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration
	Cache     *redis.Cache
	CacheTTL  time.Duration
}

func New(opts Options, log zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	if opts.APIKey != "" {
		rc.SetHeader("Authorization", fmt.Sprintf("token %s:%s", opts.APIKey, opts.APISecret))
	}
	return &Client{
		http:     rc,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		log:      log,
	}
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, dest interface{}) error {
	r, err := c.http.R().SetContext(ctx).SetPathParams(params).Get(path)
	if err != nil {
		return fmt.Errorf("frappe request %s: %w", path, err)
	}
	if r.StatusCode() == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if r.IsError() {
		return fmt.Errorf("frappe request %s: %s; body: %s", path, r.Status(), r.String())
	}
	if err := json.Unmarshal(r.Body(), dest); err != nil {
		return fmt.Errorf("frappe response %s: %w", path, err)
	}
	return nil
}

// GetDoc loads a document. A missing document yields domain.ErrNotFound.
func (c *Client) GetDoc(ctx context.Context, doctype, name string) (*domain.Document, error) {
	var resp struct {
		Data domain.Document `json:"data"`
	}
	err := c.get(ctx, "/api/resource/{doctype}/{name}", map[string]string{
		"doctype": doctype,
		"name":    name,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data.Doctype == "" {
		resp.Data.Doctype = doctype
	}
	return &resp.Data, nil
}

func metaCacheKey(doctype string) string {
	return "meta:" + doctype
}

// GetMeta returns the schema fields of doctype. Results are cached, cache
// errors only get logged.
func (c *Client) GetMeta(ctx context.Context, doctype string) ([]domain.DocField, error) {
	var fields []domain.DocField
	found, err := c.cache.Get(ctx, metaCacheKey(doctype), &fields)
	if err != nil {
		c.log.Warn().Err(err).Str("doctype", doctype).Msg("meta cache read failed")
	}
	if found {
		return fields, nil
	}

	var resp struct {
		Data struct {
			Name   string            `json:"name"`
			Fields []domain.DocField `json:"fields"`
		} `json:"data"`
	}
	err = c.get(ctx, "/api/resource/DocType/{doctype}", map[string]string{"doctype": doctype}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, metaCacheKey(doctype), resp.Data.Fields, c.cacheTTL); err != nil {
		c.log.Warn().Err(err).Str("doctype", doctype).Msg("meta cache write failed")
	}
	return resp.Data.Fields, nil
}
