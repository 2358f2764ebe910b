// Package profiles manages named endpoint profiles for the dexie CLI.
// A profile selects the API environment (base URLs) plus optional
// per-environment timeout and retry overrides, loaded from a YAML or
// JSON file or from the built-in mainnet/testnet definitions.
package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dexie-space/dexie-go/pkg/dexie"
	"github.com/dexie-space/dexie-go/pkg/httpclient"
	"gopkg.in/yaml.v3"
)

// Built-in profile ids.
const (
	IDMainnet = "mainnet"
	IDTestnet = "testnet"
)

// configFile represents the structure of the profiles configuration file.
type configFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Profile represents a single endpoint profile entry declared in config files.
// TimeoutSeconds left zero falls back to the application default. RetryCount
// left unset keeps the client's default retry policy; zero disables retries.
type Profile struct {
	ID                  string `json:"id" yaml:"id"`
	BaseURL             string `json:"base_url" yaml:"base_url"`
	PricesBaseURL       string `json:"prices_base_url" yaml:"prices_base_url"`
	TimeoutSeconds      int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	RetryCount          *int   `json:"retry_count" yaml:"retry_count"`
	RetryWaitSeconds    int    `json:"retry_wait_seconds" yaml:"retry_wait_seconds"`
	RetryMaxWaitSeconds int    `json:"retry_max_wait_seconds" yaml:"retry_max_wait_seconds"`
}

// Timeout returns the profile timeout, or fallback when unset.
func (p Profile) Timeout(fallback time.Duration) time.Duration {
	if p.TimeoutSeconds > 0 {
		return time.Duration(p.TimeoutSeconds) * time.Second
	}
	return fallback
}

// Retry returns the retry policy override, or nil when the profile leaves
// retrying at the client default.
func (p Profile) Retry() *httpclient.RetryPolicy {
	if p.RetryCount == nil {
		return nil
	}
	return &httpclient.RetryPolicy{
		Count:       *p.RetryCount,
		WaitTime:    time.Duration(p.RetryWaitSeconds) * time.Second,
		MaxWaitTime: time.Duration(p.RetryMaxWaitSeconds) * time.Second,
	}
}

// Registry materializes profile definitions loaded from config files.
type Registry struct {
	mu       sync.RWMutex
	profiles []Profile
	idx      map[string]Profile
}

// LoadRegistry loads the profile registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("profiles file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	fileReg, err := parseProfileRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	return newRegistry(fileReg.Profiles)
}

// Builtin returns a registry with the mainnet and testnet profiles.
func Builtin() *Registry {
	reg, err := newRegistry([]Profile{
		{
			ID:            IDMainnet,
			BaseURL:       dexie.MainnetBaseURL,
			PricesBaseURL: dexie.MainnetPricesBaseURL,
		},
		{
			ID:            IDTestnet,
			BaseURL:       dexie.TestnetBaseURL,
			PricesBaseURL: dexie.TestnetPricesBaseURL,
		},
	})
	if err != nil {
		panic(fmt.Sprintf("builtin profiles invalid: %v", err))
	}
	return reg
}

// newRegistry sanitizes, validates, and indexes the provided profiles.
func newRegistry(entries []Profile) (*Registry, error) {
	reg := &Registry{
		profiles: make([]Profile, len(entries)),
		idx:      make(map[string]Profile, len(entries)),
	}

	for i := range entries {
		p := sanitizeProfile(entries[i])
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profiles[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.profiles[i] = p
		reg.idx[p.ID] = p
	}

	return reg, nil
}

// parseProfileRegistry attempts to decode the profiles file content.
func parseProfileRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalProfileRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("profiles file format not recognized (expected YAML or JSON)")
}

// unmarshalProfileRegistry decodes the profiles file using the provided function.
func unmarshalProfileRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s profiles: %w", name, err)
	}
	return reg, nil
}

// sanitizeProfile trims and normalizes the profile fields.
func sanitizeProfile(p Profile) Profile {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	p.PricesBaseURL = strings.TrimRight(strings.TrimSpace(p.PricesBaseURL), "/")
	return p
}

// validateProfile checks that required fields are present.
func validateProfile(p Profile) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.BaseURL == "" {
		return fmt.Errorf("base_url is required for profile %q", p.ID)
	}
	if p.PricesBaseURL == "" {
		return fmt.Errorf("prices_base_url is required for profile %q", p.ID)
	}
	if p.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative for profile %q", p.ID)
	}
	if p.RetryCount != nil && *p.RetryCount < 0 {
		return fmt.Errorf("retry_count must not be negative for profile %q", p.ID)
	}
	if p.RetryWaitSeconds < 0 || p.RetryMaxWaitSeconds < 0 {
		return fmt.Errorf("retry wait settings must not be negative for profile %q", p.ID)
	}
	return nil
}

// ByID returns the profile config by id.
func (r *Registry) ByID(id string) (Profile, bool) {
	if r == nil {
		return Profile{}, false
	}

	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Profile{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns all configured profiles.
func (r *Registry) All() []Profile {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// IDs returns the sorted profile ids, for error messages and help output.
func (r *Registry) IDs() []string {
	all := r.All()
	if len(all) == 0 {
		return nil
	}

	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}
