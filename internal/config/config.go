// Package config holds the reasoner's host-level knobs: the flags a
// surrounding program uses to tune the engine without changing its
// logical contracts (spec §6's "Environment/CLI ... for testing context
// only").
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the reasoner's full set of host-level knobs.
type Config struct {
	// ProofComments is the host's proof-comments switch. The engine does
	// not read it: reasoner.Engine.Run records derivation records
	// (internal/explain) whatever its value.
	ProofComments bool `yaml:"proof_comments"`

	// SuperRestricted disables every builtin except log:implies and
	// log:impliedBy, including the external-collaborator builtins
	// (log:semantics, log:content, log:parsedAsN3), so a run never
	// dereferences a network IRI regardless of EnforceHTTPS.
	SuperRestricted bool `yaml:"super_restricted"`

	// EnforceHTTPS rewrites http:// fetch targets to https:// before
	// dereferencing (internal/ndoc.HTTPFetcher).
	EnforceHTTPS bool `yaml:"enforce_https"`

	// DeterministicSkolem is a legacy stability switch. The engine does
	// not read it: the skolem IRI minted for a given key is always derived
	// from that key alone, so it is stable across repeated runs of the
	// same input whatever the switch's value.
	DeterministicSkolem bool `yaml:"deterministic_skolem"`

	// FixedNow pins time:localTime's wall-clock reading, for
	// reproducible test fixtures. Nil means use the real clock.
	FixedNow *time.Time `yaml:"fixed_now"`

	// FactLimit records a cap on the number of facts a forward run may
	// derive, in the spirit of the teacher's MangleConfig.FactLimit. The
	// engine does not read it, so no forward run is capped by it.
	FactLimit int `yaml:"fact_limit"`

	// MaxResults caps the number of solutions a single backward query
	// returns. Zero means unlimited.
	MaxResults int `yaml:"max_results"`
}

// DefaultConfig returns the reasoner's default configuration: proof
// comments and deterministic skolemization on, everything else
// permissive.
func DefaultConfig() *Config {
	return &Config{
		ProofComments:       true,
		SuperRestricted:     false,
		EnforceHTTPS:        false,
		DeterministicSkolem: true,
		FixedNow:            nil,
		FactLimit:           0,
		MaxResults:          0,
	}
}

// Load reads a YAML config file, starting from DefaultConfig for any
// field the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// Now returns FixedNow if set, otherwise the real wall clock.
func (c *Config) Now() time.Time {
	if c.FixedNow != nil {
		return *c.FixedNow
	}
	return time.Now()
}
