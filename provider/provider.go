package provider

import (
	"errors"
	"sort"
	"sync"
)

// Error values for consistent error handling by callers.
var (
	ErrNotFound          = errors.New("provider not found")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidProviderID = errors.New("invalid provider id")
)

// Credential states reported by Provider.Status.
const (
	StatusAuthenticated = "authenticated"
	StatusAnonymous     = "anonymous"
	StatusMissing       = "missing_credential"
)

// Provider describes one upstream legal data source.
type Provider struct {
	// ID is the source name used in diagnostics and metrics.
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Version is the upstream API version.
	Version string `json:"version,omitempty"`
	BaseURL string `json:"base_url"`
	DocsURL string `json:"docs_url,omitempty"`

	// CredentialEnv names the configuration value carrying the credential.
	// Empty for sources that take none.
	CredentialEnv string `json:"credential_env,omitempty"`
	// CredentialRequired marks sources that refuse anonymous calls.
	CredentialRequired bool `json:"credential_required,omitempty"`
	// Configured reports whether a credential was supplied.
	Configured bool `json:"configured"`
}

// Status summarizes the credential state.
func (p Provider) Status() string {
	switch {
	case p.Configured:
		return StatusAuthenticated
	case p.CredentialRequired:
		return StatusMissing
	default:
		return StatusAnonymous
	}
}

// Store defines provider catalog operations.
type Store interface {
	// RegisterProvider registers a provider and returns its resolved ID.
	RegisterProvider(id string, provider Provider) (string, error)
	// DescribeProvider returns a provider by ID.
	DescribeProvider(id string) (Provider, error)
	// ListProviders returns all registered providers in stable order.
	ListProviders() ([]Provider, error)
}

// InMemoryStore stores providers in memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewInMemoryStore creates a new provider store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		providers: make(map[string]Provider),
	}
}

// ProviderID returns a stable provider ID from name/version.
func ProviderID(name, version string) string {
	if name == "" {
		return ""
	}
	if version == "" {
		return name
	}
	return name + ":" + version
}

// RegisterProvider registers a provider and returns its resolved ID. An empty
// id falls back to provider.ID, then to ProviderID(Name, Version).
func (s *InMemoryStore) RegisterProvider(id string, provider Provider) (string, error) {
	if provider.Name == "" || provider.BaseURL == "" {
		return "", ErrInvalidProvider
	}
	if id == "" {
		id = provider.ID
	}
	if id == "" {
		id = ProviderID(provider.Name, provider.Version)
	}
	if id == "" {
		return "", ErrInvalidProviderID
	}
	provider.ID = id

	s.mu.Lock()
	s.providers[id] = provider
	s.mu.Unlock()

	return id, nil
}

// DescribeProvider returns a provider by ID.
func (s *InMemoryStore) DescribeProvider(id string) (Provider, error) {
	if id == "" {
		return Provider{}, ErrInvalidProviderID
	}

	s.mu.RLock()
	provider, ok := s.providers[id]
	s.mu.RUnlock()

	if !ok {
		return Provider{}, ErrNotFound
	}
	return provider, nil
}

// ListProviders returns all registered providers ordered by ID.
func (s *InMemoryStore) ListProviders() ([]Provider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.providers))
	for id := range s.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]Provider, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.providers[id])
	}
	return result, nil
}
