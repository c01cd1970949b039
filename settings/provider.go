package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"gopkg.in/yaml.v3"

	"github.com/eringen/folio/logger"
)

// Provider loads the settings document once and hands out read-only copies.
type Provider struct {
	source string
	client *resty.Client
	log    *logger.Logger

	once      sync.Once
	doc       Document
	err       error
	warnings  []string
	defaulted []string
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *resty.Client) ProviderOption {
	return func(p *Provider) { p.client = c }
}

// WithLogger sets the logger load problems are reported to.
func WithLogger(l *logger.Logger) ProviderOption {
	return func(p *Provider) { p.log = l }
}

// NewProvider returns a Provider for source, a file path or an http(s) URL.
// Files ending in .yaml or .yml are decoded as YAML, everything else as JSON.
func NewProvider(source string, opts ...ProviderOption) *Provider {
	p := &Provider{
		source: source,
		log:    logger.Nop(),
		doc:    Defaults(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = resty.New().SetTimeout(10 * time.Second)
	}
	return p
}

// Static returns a Provider already holding doc. Defaults are applied.
func Static(doc Document) *Provider {
	p := NewProvider("static")
	p.once.Do(func() {
		p.doc, _, p.err = withDefaults(doc)
	})
	return p
}

// Load reads and decodes the source on the first call; later calls return
// the same result without touching the source again. On failure the
// returned document is Defaults and the error is a *ConfigLoadError.
func (p *Provider) Load(ctx context.Context) (Document, error) {
	p.once.Do(func() {
		doc, warnings, defaulted, err := p.load(ctx)
		if err != nil {
			p.err = &ConfigLoadError{Source: p.source, Err: err}
			p.doc = Defaults()
			p.log.Error().Err(err).Str("source", p.source).Msg("settings load failed, using defaults")
			return
		}
		for _, w := range warnings {
			p.log.Warn().Str("source", p.source).Msg(w)
		}
		p.doc = doc
		p.warnings = warnings
		p.defaulted = defaulted
		p.log.Info().
			Str("source", p.source).
			Int("posts", len(doc.Blog.Posts)).
			Int("projects", len(doc.Portfolio.Projects)).
			Msg("settings loaded")
	})
	return p.doc.Clone(), p.err
}

// Err returns the load error, if any.
func (p *Provider) Err() error {
	return p.err
}

// Settings returns a copy of the loaded document, loading it first if no
// one has yet.
func (p *Provider) Settings() Document {
	doc, _ := p.Load(context.Background())
	return doc
}

// Warnings returns the non-fatal problems found while loading: fields of
// the wrong type and posts that were dropped or renamed.
func (p *Provider) Warnings() []string {
	return append([]string(nil), p.warnings...)
}

// DefaultedFields returns the document paths of the fields the source left
// empty and that were filled from Defaults.
func (p *Provider) DefaultedFields() []string {
	return append([]string(nil), p.defaulted...)
}

// Source returns where the document is read from.
func (p *Provider) Source() string {
	return p.source
}

func (p *Provider) load(ctx context.Context) (Document, []string, []string, error) {
	raw, err := p.read(ctx)
	if err != nil {
		return Document{}, nil, nil, err
	}
	doc, warnings, err := Decode(raw, formatOf(p.source))
	if err != nil {
		return Document{}, nil, nil, err
	}
	defaulted := Defaulted(doc)
	doc, more, err := withDefaults(doc)
	if err != nil {
		return Document{}, nil, nil, err
	}
	return doc, append(warnings, more...), defaulted, nil
}

func (p *Provider) read(ctx context.Context) ([]byte, error) {
	if isRemote(p.source) {
		resp, err := p.client.R().SetContext(ctx).Get(p.source)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode())
		}
		return resp.Body(), nil
	}
	return os.ReadFile(p.source)
}

// Format is the encoding of a settings source.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func formatOf(source string) Format {
	s := source
	if i := strings.IndexAny(s, "?#"); i >= 0 && isRemote(s) {
		s = s[:i]
	}
	switch strings.ToLower(filepath.Ext(s)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Decode parses raw without applying defaults. A field holding a value of
// the wrong type is skipped and reported as a warning; the rest of the
// document is kept. Syntax errors are returned as errors.
func Decode(raw []byte, f Format) (Document, []string, error) {
	var doc Document
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil, errors.New("empty document")
	}
	switch f {
	case FormatYAML:
		err := yaml.Unmarshal(raw, &doc)
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return doc, te.Errors, nil
		}
		if err != nil {
			return Document{}, nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		err := json.Unmarshal(raw, &doc)
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) && te.Field != "" {
			return doc, []string{fmt.Sprintf("field %s: expected %s, got %s", te.Field, te.Type, te.Value)}, nil
		}
		if err != nil {
			return Document{}, nil, fmt.Errorf("decode json: %w", err)
		}
	}
	return doc, nil, nil
}
