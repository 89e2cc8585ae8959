package provider

import (
	"errors"
	"testing"
)

func TestProviderID(t *testing.T) {
	if got := ProviderID("", "v3"); got != "" {
		t.Errorf("ProviderID empty name = %q, want empty", got)
	}
	if got := ProviderID("congress", ""); got != "congress" {
		t.Errorf("ProviderID without version = %q, want congress", got)
	}
	if got := ProviderID("congress", "v3"); got != "congress:v3" {
		t.Errorf("ProviderID = %q, want congress:v3", got)
	}
}

func TestInMemoryStore_RegisterDescribe(t *testing.T) {
	store := NewInMemoryStore()

	id, err := store.RegisterProvider("", testProvider("", "Congress.gov", "v3"))
	if err != nil {
		t.Fatalf("RegisterProvider error = %v", err)
	}
	if id != "Congress.gov:v3" {
		t.Errorf("resolved id = %q, want Congress.gov:v3", id)
	}

	got, err := store.DescribeProvider(id)
	if err != nil {
		t.Fatalf("DescribeProvider error = %v", err)
	}
	if got.Name != "Congress.gov" || got.ID != id {
		t.Errorf("DescribeProvider = %+v, want Congress.gov with id %q", got, id)
	}
}

func TestInMemoryStore_RegisterUsesProviderID(t *testing.T) {
	store := NewInMemoryStore()

	id, err := store.RegisterProvider("", testProvider("congress", "Congress.gov", "v3"))
	if err != nil {
		t.Fatalf("RegisterProvider error = %v", err)
	}
	if id != "congress" {
		t.Errorf("resolved id = %q, want congress", id)
	}
}

func TestInMemoryStore_RegisterInvalid(t *testing.T) {
	store := NewInMemoryStore()

	if _, err := store.RegisterProvider("x", Provider{BaseURL: "https://example.test"}); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("missing name error = %v, want ErrInvalidProvider", err)
	}
	if _, err := store.RegisterProvider("x", Provider{Name: "X"}); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("missing base URL error = %v, want ErrInvalidProvider", err)
	}
}

func TestInMemoryStore_ListProviders(t *testing.T) {
	store := NewInMemoryStore()

	_, _ = store.RegisterProvider("us_code", testProvider("", "US Code", ""))
	_, _ = store.RegisterProvider("congress", testProvider("", "Congress.gov", "v3"))

	list, err := store.ListProviders()
	if err != nil {
		t.Fatalf("ListProviders error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListProviders length = %d, want 2", len(list))
	}
	if list[0].ID != "congress" {
		t.Errorf("sorted first provider = %q, want congress", list[0].ID)
	}
}

func TestInMemoryStore_Describe_NotFound(t *testing.T) {
	store := NewInMemoryStore()

	if _, err := store.DescribeProvider("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DescribeProvider error = %v, want ErrNotFound", err)
	}
	if _, err := store.DescribeProvider(""); !errors.Is(err, ErrInvalidProviderID) {
		t.Errorf("DescribeProvider empty error = %v, want ErrInvalidProviderID", err)
	}
}

func TestProvider_Status(t *testing.T) {
	tests := []struct {
		name string
		p    Provider
		want string
	}{
		{"configured", Provider{CredentialEnv: "K", Configured: true}, StatusAuthenticated},
		{"optional missing", Provider{CredentialEnv: "K"}, StatusAnonymous},
		{"required missing", Provider{CredentialEnv: "K", CredentialRequired: true}, StatusMissing},
		{"no credential", Provider{}, StatusAnonymous},
	}
	for _, tt := range tests {
		if got := tt.p.Status(); got != tt.want {
			t.Errorf("%s: Status() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func testProvider(id, name, version string) Provider {
	return Provider{
		ID:      id,
		Name:    name,
		Version: version,
		BaseURL: "https://example.test",
	}
}
