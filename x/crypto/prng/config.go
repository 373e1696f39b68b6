// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package prng

import (
	"crypto/rand"
	"io"
	"time"
)

// Config defines the tunable parameters for the ChaCha20-based PRNG pool.
//
// It supports fine-grained control over key rotation, rekeying policies, backoff
// behavior, and shard fan-out, enabling security-focused customization for a
// variety of use cases.
type Config struct {
	// RekeyBackoff is the initial delay before retrying a failed rekey operation.
	//
	// Exponential backoff doubles the delay for each failure up to MaxRekeyBackoff.
	// If set to zero, the default is 100 milliseconds.
	RekeyBackoff time.Duration

	// MaxRekeyBackoff specifies the maximum duration (clamped) for exponential backoff during rekey attempts.
	//
	// If set to zero, a default value of 2 seconds is used.
	MaxRekeyBackoff time.Duration

	// MaxBytesPerKey is the maximum number of bytes generated per key before triggering automatic rekeying.
	//
	// If set to zero, a default value of 1 GiB (1 << 30) is used.
	MaxBytesPerKey uint64

	// MaxRekeyAttempts specifies the number of attempts to perform asynchronous rekeying.
	//
	// On failure, exponential backoff is used between attempts. If zero, a default of 5 is used.
	MaxRekeyAttempts int

	// MaxInitRetries is the maximum number of attempts to initialize a pool entry before giving up and panicking.
	//
	// If set to zero, a default of 3 is used.
	MaxInitRetries int

	// DefaultBufferSize specifies the initial capacity of the internal buffer used for zero-filled output operations.
	//
	// Only relevant if UseZeroBuffer is true. If zero, no preallocation is performed.
	DefaultBufferSize int

	// EnableKeyRotation controls whether PRNG instances automatically rotate their key/nonce
	// after MaxBytesPerKey output.
	//
	// Defaults to false; callers that want forward secrecy must opt in explicitly.
	EnableKeyRotation bool

	// UseZeroBuffer determines whether each Read operation XORs the cipher stream against
	// a zero-filled staging buffer rather than the caller's buffer in place.
	UseZeroBuffer bool

	// Shards is the number of independent PRNG pool entries the reader fans reads across.
	//
	// If zero or negative, NewReader falls back to runtime.GOMAXPROCS(0).
	Shards int

	// EntropySource supplies the key and nonce material consumed when seeding or
	// rekeying a ChaCha20 stream.
	//
	// Defaults to crypto/rand.Reader. Callers that want the stream reseeded from a
	// non-physical noise source instead of the OS CSPRNG may supply any io.Reader,
	// such as a jitterentropy collector's ReadEntropy output.
	EntropySource io.Reader
}

// Default configuration constants for the ChaCha20 PRNG.
const (
	defaultMaxBytes     = 1 << 30                // Default max bytes per key (1 GiB)
	defaultInitRetries  = 3                      // Default max initialization retries
	defaultRekeyRetries = 5                      // Default max rekey attempts
	maxRekeyBackoff     = 2 * time.Second        // Default max backoff for rekey (2 seconds)
	defaultRekeyBackoff = 100 * time.Millisecond // Default initial rekey backoff (100 ms)
	defaultShards       = 8                      // Default number of pool shards
)

// DefaultConfig returns a Config struct populated with production-safe, recommended defaults.
//
// Defaults:
//   - MaxBytesPerKey: 1 GiB (1 << 30)
//   - MaxInitRetries: 3
//   - MaxRekeyAttempts: 5
//   - MaxRekeyBackoff: 2 seconds
//   - RekeyBackoff: 100 milliseconds
//   - EnableKeyRotation: false
//   - Shards: 8
//   - EntropySource: crypto/rand.Reader
func DefaultConfig() Config {
	return Config{
		MaxBytesPerKey:    defaultMaxBytes,
		MaxInitRetries:    defaultInitRetries,
		MaxRekeyAttempts:  defaultRekeyRetries,
		MaxRekeyBackoff:   maxRekeyBackoff,
		RekeyBackoff:      defaultRekeyBackoff,
		EnableKeyRotation: false,
		UseZeroBuffer:     false,
		DefaultBufferSize: 0,
		Shards:            defaultShards,
		EntropySource:     rand.Reader,
	}
}

// Option defines a functional option for customizing a Config.
type Option func(*Config)

// WithMaxBytesPerKey returns an Option that sets the maximum output (in bytes) per key before rekeying.
func WithMaxBytesPerKey(n uint64) Option { return func(cfg *Config) { cfg.MaxBytesPerKey = n } }

// WithMaxInitRetries returns an Option that sets the maximum number of pool initialization retries.
func WithMaxInitRetries(n int) Option { return func(cfg *Config) { cfg.MaxInitRetries = n } }

// WithMaxRekeyAttempts returns an Option that sets the maximum number of retries allowed for asynchronous rekeying.
func WithMaxRekeyAttempts(n int) Option { return func(cfg *Config) { cfg.MaxRekeyAttempts = n } }

// WithMaxRekeyBackoff returns an Option that sets the maximum duration for rekey exponential backoff.
func WithMaxRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.MaxRekeyBackoff = d }
}

// WithRekeyBackoff returns an Option that sets the initial backoff duration for rekey retries.
func WithRekeyBackoff(d time.Duration) Option {
	return func(cfg *Config) { cfg.RekeyBackoff = d }
}

// WithEnableKeyRotation returns an Option that enables or disables automatic key rotation.
func WithEnableKeyRotation(enable bool) Option {
	return func(cfg *Config) { cfg.EnableKeyRotation = enable }
}

// WithUseZeroBuffer returns an Option to enable or disable use of a zero-filled buffer for output.
func WithUseZeroBuffer(enable bool) Option {
	return func(cfg *Config) { cfg.UseZeroBuffer = enable }
}

// WithDefaultBufferSize returns an Option to set the default buffer size for zero-filled output.
func WithDefaultBufferSize(n int) Option {
	return func(cfg *Config) { cfg.DefaultBufferSize = n }
}

// WithShards returns an Option that sets the number of pool shards the reader fans reads across.
//
// If n <= 0, NewReader falls back to runtime.GOMAXPROCS(0).
func WithShards(n int) Option { return func(cfg *Config) { cfg.Shards = n } }

// WithEntropySource returns an Option that replaces the key/nonce source consumed during
// initialization and rekeying.
//
// Use this to reseed from a non-physical noise source, such as a jitterentropy
// collector, instead of crypto/rand.Reader.
func WithEntropySource(r io.Reader) Option {
	return func(cfg *Config) { cfg.EntropySource = r }
}
