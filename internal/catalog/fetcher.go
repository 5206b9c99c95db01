package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound indicates the category document does not exist.
var ErrNotFound = errors.New("catalog: document not found")

// FetchError reports a failed catalog fetch. Status is the HTTP status for
// remote fetches and zero otherwise.
type FetchError struct {
	Category Category
	Source   string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: fetch %s from %s: status %d", e.Category, e.Source, e.Status)
	}
	return fmt.Sprintf("catalog: fetch %s from %s: %v", e.Category, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DefaultFetchTimeout caps a single remote fetch.
const DefaultFetchTimeout = 10 * time.Second

// Client loads category documents from a static file host or a local directory.
// It neither retries nor caches.
type Client struct {
	registry  *Registry
	baseURL   string
	dir       string
	http      *http.Client
	telemetry *Telemetry
	log       zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for remote fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTelemetry sets the tracer and instruments.
func WithTelemetry(t *Telemetry) Option {
	return func(c *Client) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient builds a client. A non-empty baseURL selects remote mode; otherwise
// documents are read from dir.
func NewClient(reg *Registry, baseURL, dir string, opts ...Option) *Client {
	if reg == nil {
		reg = DefaultRegistry()
	}
	c := &Client{
		registry:  reg,
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		dir:       dir,
		http:      &http.Client{Timeout: DefaultFetchTimeout},
		telemetry: defaultTelemetry,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the category table the client resolves documents with.
func (c *Client) Registry() *Registry { return c.registry }

// Fetch loads and decodes the document of cat.
func (c *Client) Fetch(ctx context.Context, cat Category) (Document, error) {
	def, err := c.registry.Get(cat)
	if err != nil {
		return Document{}, err
	}
	mode := "local"
	if c.baseURL != "" {
		mode = "remote"
	}
	ctx, span := c.telemetry.startFetch(ctx, cat, mode)

	var doc Document
	if mode == "remote" {
		doc, err = c.fetchRemote(ctx, def)
	} else {
		doc, err = c.fetchLocal(ctx, def)
	}
	span.end(ctx, len(doc.Records), err)

	evt := c.log.Debug()
	if err != nil {
		evt = c.log.Warn().Err(err)
	}
	evt.Str("category", string(cat)).Str("mode", mode).Int("records", len(doc.Records)).
		Dur("elapsed", time.Since(span.start)).Msg("catalog fetch")
	return doc, err
}

func (c *Client) fetchRemote(ctx context.Context, def Definition) (Document, error) {
	endpoint := c.baseURL + "/" + EscapeSegment(def.Document)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Document{}, &FetchError{Category: def.Key, Source: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Document{}, &FetchError{Category: def.Key, Source: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		if def.Optional {
			return Document{Category: def.Key}, nil
		}
		return Document{}, &FetchError{Category: def.Key, Source: endpoint, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Document{}, &FetchError{
			Category: def.Key,
			Source:   endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	doc, err := Decode(def.Key, resp.Body)
	if err != nil {
		return Document{}, &FetchError{Category: def.Key, Source: endpoint, Err: err}
	}
	return doc, nil
}

func (c *Client) fetchLocal(ctx context.Context, def Definition) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	path := filepath.Join(c.dir, filepath.FromSlash(def.Document))
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if def.Optional {
			return Document{Category: def.Key}, nil
		}
		return Document{}, &FetchError{Category: def.Key, Source: path, Err: ErrNotFound}
	}
	if err != nil {
		return Document{}, &FetchError{Category: def.Key, Source: path, Err: err}
	}
	defer f.Close()
	doc, err := Decode(def.Key, f)
	if err != nil {
		return Document{}, &FetchError{Category: def.Key, Source: path, Err: err}
	}
	return doc, nil
}
