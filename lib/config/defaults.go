package config

import (
	"path/filepath"
	"time"
)

// Config is the full runtime configuration assembled from viper.
type Config struct {
	Stats   StatsConfig
	Keyring KeyringConfig
	Chain   ChainConfig
	Route   RouteConfig
	Output  OutputConfig
}

// StatsConfig controls how the remailer directory is fetched.
type StatsConfig struct {
	// URL is the base URL of a remailer statistics site; rlist.txt and
	// pubring.asc are fetched relative to it.
	URL string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// RequestsPerSecond paces requests against the stats site.
	RequestsPerSecond float64
}

// KeyringConfig locates local remailer key material.
type KeyringConfig struct {
	// Dir holds armored public key files to import before encrypting.
	Dir string
}

// ChainConfig bounds chain resolution.
type ChainConfig struct {
	// MaxLength caps the number of hops in one chain.
	MaxLength int
}

// RouteConfig controls the redundancy multiplexer.
type RouteConfig struct {
	// Redundancy is the default number of independently routed copies.
	Redundancy int
	// Workers caps the number of copies encrypted in parallel.
	Workers int
}

// OutputConfig selects the default serialization.
type OutputConfig struct {
	// Format is one of native, mailto, eml.
	Format string
}

var DefaultStatsConfig = StatsConfig{
	URL:               "https://remailer.paranoici.org/",
	Timeout:           30 * time.Second,
	RequestsPerSecond: 1,
}

var DefaultKeyringConfig = KeyringConfig{
	Dir: filepath.Join(BuildBaseDirPath(), "keyring"),
}

var DefaultChainConfig = ChainConfig{
	MaxLength: 8,
}

var DefaultRouteConfig = RouteConfig{
	Redundancy: 1,
	Workers:    4,
}

var DefaultOutputConfig = OutputConfig{
	Format: "native",
}
