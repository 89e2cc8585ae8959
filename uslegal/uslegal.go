package uslegal

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/jonwraymond/uslegal/metrics"
	"github.com/jonwraymond/uslegal/provider"
	"github.com/jonwraymond/uslegal/relevance"
	"github.com/jonwraymond/uslegal/source"
	"github.com/jonwraymond/uslegal/source/congress"
	"github.com/jonwraymond/uslegal/source/courtlistener"
	"github.com/jonwraymond/uslegal/source/federalregister"
	"github.com/jonwraymond/uslegal/source/regulations"
	"github.com/jonwraymond/uslegal/source/uscode"
)

// Credentials holds the upstream API keys. Every key is optional.
type Credentials struct {
	Congress       string
	RegulationsGov string
	CourtListener  string
}

// Options configures a Client.
type Options struct {
	// Credentials are passed to the adapters that take one.
	Credentials Credentials

	// HTTPClient is shared by all adapters. Default: http.DefaultClient.
	HTTPClient *http.Client

	// UserAgent is sent upstream. Default: source.DefaultUserAgent.
	UserAgent string

	// Timeout bounds each upstream request for sources without a timeout of
	// their own. Zero relies on HTTPClient.
	Timeout time.Duration

	// USCodeTimeout overrides the US Code adapter's 30s timeout.
	USCodeTimeout time.Duration

	// Logger receives adapter logs. Default: slog.Default().
	Logger *slog.Logger

	// Reporter receives failure diagnostics. Default: logged to Logger.
	Reporter source.Reporter

	// Metrics records upstream measurements. Nil disables them.
	Metrics *metrics.Metrics

	// Weights tune relevance scoring. The zero value means
	// relevance.DefaultWeights().
	Weights relevance.Weights

	// Sources is the set SearchAll fans out to. Default: AllSources.
	Sources []Source

	// Adapter overrides. Nil fields get the real adapter.
	Bills       BillSource
	Regulations RegulationSource
	Code        CodeSource
	Comments    CommentSource
	Opinions    OpinionSource
}

// Client is the facade over every legal data source.
type Client struct {
	bills       BillSource
	regulations RegulationSource
	code        CodeSource
	comments    CommentSource
	opinions    OpinionSource

	sources   []Source
	scorer    relevance.Scorer
	providers *provider.InMemoryStore
	logger    *slog.Logger
}

// New creates a Client with the given options.
func New(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	weights := opts.Weights
	if weights == (relevance.Weights{}) {
		weights = relevance.DefaultWeights()
	} else if err := weights.Validate(); err != nil {
		return nil, err
	}
	scorer := relevance.NewScorer(weights)

	sources := AllSources
	if len(opts.Sources) > 0 {
		sources = normalizeSources(opts.Sources)
		if len(sources) == 0 {
			return nil, ErrNoSources
		}
	}

	base := source.Options{
		Timeout:    opts.Timeout,
		HTTPClient: opts.HTTPClient,
		UserAgent:  opts.UserAgent,
		Logger:     logger,
		Reporter:   opts.Reporter,
	}
	if opts.Metrics != nil {
		base.Metrics = opts.Metrics
	}
	withKey := func(key string) source.Options {
		o := base
		o.APIKey = key
		return o
	}

	c := &Client{
		bills:       opts.Bills,
		regulations: opts.Regulations,
		code:        opts.Code,
		comments:    opts.Comments,
		opinions:    opts.Opinions,
		sources:     sources,
		scorer:      scorer,
		logger:      logger,
	}

	var err error
	if c.bills == nil {
		if c.bills, err = congress.New(withKey(opts.Credentials.Congress), scorer); err != nil {
			return nil, fmt.Errorf("congress adapter: %w", err)
		}
	}
	if c.regulations == nil {
		if c.regulations, err = federalregister.New(base, scorer); err != nil {
			return nil, fmt.Errorf("federal register adapter: %w", err)
		}
	}
	if c.code == nil {
		codeOpts := base
		codeOpts.Timeout = opts.USCodeTimeout
		if c.code, err = uscode.New(codeOpts); err != nil {
			return nil, fmt.Errorf("us code adapter: %w", err)
		}
	}
	if c.comments == nil {
		if c.comments, err = regulations.New(withKey(opts.Credentials.RegulationsGov)); err != nil {
			return nil, fmt.Errorf("regulations.gov adapter: %w", err)
		}
	}
	if c.opinions == nil {
		if c.opinions, err = courtlistener.New(withKey(opts.Credentials.CourtListener)); err != nil {
			return nil, fmt.Errorf("courtlistener adapter: %w", err)
		}
	}

	c.providers = catalog(opts.Credentials)
	return c, nil
}

// normalizeSources drops unknown and repeated sources, keeping first
// occurrence order.
func normalizeSources(in []Source) []Source {
	out := make([]Source, 0, len(in))
	for _, s := range in {
		if slices.Contains(AllSources, s) && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// Bills returns the legislative adapter.
func (c *Client) Bills() BillSource { return c.bills }

// Regulations returns the regulatory-document adapter.
func (c *Client) Regulations() RegulationSource { return c.regulations }

// Code returns the code-section adapter.
func (c *Client) Code() CodeSource { return c.code }

// Comments returns the public-comment adapter.
func (c *Client) Comments() CommentSource { return c.comments }

// Opinions returns the court-opinion adapter.
func (c *Client) Opinions() OpinionSource { return c.opinions }

// Sources returns the set SearchAll queries.
func (c *Client) Sources() []Source { return slices.Clone(c.sources) }

// Scorer returns the relevance scorer shared by the ranking adapters.
func (c *Client) Scorer() relevance.Scorer { return c.scorer }

// Providers returns the catalog of upstream providers and their credential
// state.
func (c *Client) Providers() provider.Store { return c.providers }

func catalog(creds Credentials) *provider.InMemoryStore {
	store := provider.NewInMemoryStore()
	for _, p := range []provider.Provider{
		{
			ID:            congress.Name,
			Name:          "Congress.gov",
			Description:   "Bills, resolutions and committees of the US Congress",
			Version:       "v3",
			BaseURL:       congress.DefaultBaseURL,
			DocsURL:       "https://api.congress.gov/",
			CredentialEnv: congress.EnvAPIKey,
			Configured:    creds.Congress != "",
		},
		{
			ID:          federalregister.Name,
			Name:        "Federal Register",
			Description: "Rules, proposed rules, notices and presidential documents",
			Version:     "v1",
			BaseURL:     federalregister.DefaultBaseURL,
			DocsURL:     "https://www.federalregister.gov/developers/documentation/api/v1",
		},
		{
			ID:          uscode.Name,
			Name:        "United States Code",
			Description: "Sections of the United States Code",
			BaseURL:     uscode.DefaultBaseURL,
			DocsURL:     "https://uscode.house.gov/",
		},
		{
			ID:                 regulations.Name,
			Name:               "Regulations.gov",
			Description:        "Public comments on federal rulemaking",
			Version:            "v4",
			BaseURL:            regulations.DefaultBaseURL,
			DocsURL:            "https://open.gsa.gov/api/regulationsgov/",
			CredentialEnv:      regulations.EnvAPIKey,
			CredentialRequired: true,
			Configured:         creds.RegulationsGov != "",
		},
		{
			ID:            courtlistener.Name,
			Name:          "CourtListener",
			Description:   "Federal and state court opinions",
			Version:       "v3",
			BaseURL:       courtlistener.DefaultBaseURL,
			DocsURL:       "https://www.courtlistener.com/help/api/rest/",
			CredentialEnv: courtlistener.EnvAPIKey,
			Configured:    creds.CourtListener != "",
		},
	} {
		_, _ = store.RegisterProvider("", p)
	}
	return store
}
