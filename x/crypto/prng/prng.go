// Copyright (c) 2024 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package prng provides a cryptographically secure pseudo-random number generator (PRNG)
// that implements the io.Reader interface. It is designed for high-performance, concurrent
// use in generating random bytes.
//
// This package is part of the experimental "x" modules and may be subject to change.
package prng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/chacha20"
)

// defaultEntropySource returns the fallback seed source used whenever a
// Config's EntropySource is unset.
func defaultEntropySource() io.Reader {
	return rand.Reader
}

// Reader is a global, cryptographically secure random source.
// It is initialized at package load time and is safe for concurrent use.
// If initialization fails (e.g., crypto/rand is unavailable), the package will panic.
//
// Example usage:
//
//	buffer := make([]byte, 64)
//	n, err := Reader.Read(buffer)
//	if err != nil {
//	    // Handle error
//	}
//	fmt.Printf("Read %d bytes of random data: %x\n", n, buffer)
var Reader io.Reader

// Interface defines the contract for a ChaCha20-based cryptographically secure
// pseudorandom number generator (PRNG).
//
// All methods are safe for concurrent use unless otherwise noted.
type Interface interface {
	io.Reader

	// Config returns a copy of the PRNG configuration in effect for this source.
	Config() Config
}

// init sets up the package-level Reader by creating a new pooled PRNG instance.
// It is invoked automatically at program startup (package initialization).
// If NewReader fails, init will panic to prevent running without a secure random source.
func init() {
	cfg := DefaultConfig()
	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		cfg := cfg // Capture the current configuration for this shard
		pools[i] = &sync.Pool{
			New: func() interface{} {
				var (
					p   *prng
					err error
				)
				for r := 0; r < cfg.MaxInitRetries; r++ {
					if p, err = newPRNG(&cfg); err == nil {
						return p
					}
				}
				panic(fmt.Sprintf("prng pool init failed after %d retries: %v", cfg.MaxInitRetries, err))
			},
		}

		item := pools[i].Get().(*prng)
		pools[i].Put(item)
	}

	Reader = &reader{pools: pools, config: &cfg}
}

// reader wraps a sync.Pool of prng instances to provide an io.Reader
// that efficiently reuses ChaCha20-based PRNG objects.
type reader struct {
	config *Config
	pools  []*sync.Pool
}

// NewReader constructs and returns an io.Reader that produces cryptographically secure
// pseudo-random bytes using a pool of ChaCha20-based PRNG instances. Functional options may be
// supplied to customize pool behavior, key rotation, and entropy sourcing.
//
// The returned Reader is safe for concurrent use. If the pool cannot be initialized, NewReader
// returns an error.
func NewReader(opts ...Option) (Interface, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// If n <= 0, the number of shards defaults to runtime.GOMAXPROCS(0),
	// which is useful in containerized environments.
	if cfg.Shards <= 0 {
		cfg.Shards = runtime.GOMAXPROCS(0)
	}

	// Zero values select the documented defaults.
	if cfg.RekeyBackoff == 0 {
		cfg.RekeyBackoff = defaultRekeyBackoff
	}
	if cfg.MaxBytesPerKey == 0 {
		cfg.MaxBytesPerKey = defaultMaxBytes
	}
	if cfg.MaxRekeyAttempts == 0 {
		cfg.MaxRekeyAttempts = defaultRekeyRetries
	}
	if cfg.MaxInitRetries == 0 {
		cfg.MaxInitRetries = defaultInitRetries
	}

	pools := make([]*sync.Pool, cfg.Shards)
	for i := range pools {
		cfg := cfg // Capture the current configuration for this shard
		pools[i] = &sync.Pool{
			New: func() interface{} {
				var (
					p   *prng
					err error
				)
				for r := 0; r < cfg.MaxInitRetries; r++ {
					if p, err = newPRNG(&cfg); err == nil {
						return p
					}
				}
				// Return nil instead of panicking; the eager init check below converts it to an error.
				return nil
			},
		}

		var initErr error
		item := pools[i].Get()
		if item == nil {
			initErr = fmt.Errorf("prng pool initialization failed after %d retries", cfg.MaxInitRetries)
		} else {
			pools[i].Put(item)
		}

		if initErr != nil {
			return nil, initErr
		}
	}

	return &reader{
		pools:  pools,
		config: &cfg,
	}, nil
}

// Config returns a copy of the PRNG's configuration settings.
func (r *reader) Config() Config {
	return *r.config
}

// shardIndex selects a pseudo-random shard index in the range [0, n) using
// a fast, thread-safe global PCG64-based RNG.
//
// Panics if n <= 0.
func shardIndex(n int) int {
	return mrand.IntN(n)
}

// Read fills the provided buffer with cryptographically secure random data.
func (r *reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	n := len(r.pools)
	shard := 0
	if n > 1 {
		shard = shardIndex(n)
	}

	p := r.pools[shard].Get().(*prng)
	defer r.pools[shard].Put(p)

	return p.Read(b)
}

// prng implements io.Reader using a ChaCha20 cipher stream and supports
// asynchronous, nonblocking rotation of the underlying key/nonce pair.
type prng struct {
	// config holds a pointer to this PRNG instance's configuration parameters.
	config *Config

	// cipher holds the active *chacha20.Cipher. We use atomic.Value so that
	// loads and stores of the cipher pointer are safe and nonblocking.
	cipher atomic.Value

	// zero is a one-off buffer of zeros used as plaintext for XORKeyStream.
	zero []byte

	// usage tracks the total number of bytes output under the current key.
	usage uint64

	// rekeying is a 0/1 flag (set via atomic CAS) to ensure only one
	// background goroutine at a time performs the expensive rekey operation.
	rekeying uint32
}

// Read fills the provided byte slice `b` with cryptographically secure random data.
func (p *prng) Read(b []byte) (int, error) {
	n := len(b)
	if n == 0 {
		return 0, nil
	}

	stream := p.cipher.Load().(*chacha20.Cipher)

	if p.config.UseZeroBuffer {
		if cap(p.zero) < n {
			p.zero = make([]byte, n)
		} else {
			p.zero = p.zero[:n]
		}
		stream.XORKeyStream(b, p.zero)
	} else {
		stream.XORKeyStream(b, b)
	}

	if p.config.EnableKeyRotation {
		atomic.AddUint64(&p.usage, uint64(n))
		if atomic.LoadUint64(&p.usage) > p.config.MaxBytesPerKey {
			if atomic.CompareAndSwapUint32(&p.rekeying, 0, 1) {
				go p.asyncRekey()
			}
		}
	}

	return n, nil
}

// newPRNG creates and returns a fully initialized prng instance, seeded from
// config.EntropySource.
func newPRNG(config *Config) (*prng, error) {
	stream, err := newCipher(config.EntropySource)
	if err != nil {
		return nil, err
	}

	var zero []byte
	if config.UseZeroBuffer && config.DefaultBufferSize > 0 {
		zero = make([]byte, config.DefaultBufferSize)
	} else {
		zero = make([]byte, 0)
	}

	p := &prng{
		zero:   zero,
		config: config,
	}
	p.cipher.Store(stream)

	return p, nil
}

// newCipher generates and returns a new *chacha20.Cipher seeded with key and nonce
// material read from source. If source is nil, crypto/rand.Reader is used.
func newCipher(source io.Reader) (*chacha20.Cipher, error) {
	if source == nil {
		source = defaultEntropySource()
	}

	key := make([]byte, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSizeX)

	if _, err := io.ReadFull(source, key); err != nil {
		return nil, fmt.Errorf("newCipher: failed to read key: %w", err)
	}

	if _, err := io.ReadFull(source, nonce); err != nil {
		return nil, fmt.Errorf("newCipher: failed to read nonce: %w", err)
	}

	stream, err := chacha20.NewUnauthenticatedCipher(key, nonce)

	for i := range key {
		key[i] = 0
	}
	for i := range nonce {
		nonce[i] = 0
	}

	if err != nil {
		return nil, fmt.Errorf("newCipher: unable to initialize cipher: %w", err)
	}
	return stream, nil
}

// asyncRekey performs an asynchronous, non-blocking rotation of the internal ChaCha20 cipher.
func (p *prng) asyncRekey() {
	defer atomic.StoreUint32(&p.rekeying, 0)

	base := p.config.RekeyBackoff

	var old *chacha20.Cipher

	backoffCap := p.config.MaxRekeyBackoff
	if backoffCap == 0 {
		backoffCap = maxRekeyBackoff
	}

	for i := 0; i < p.config.MaxRekeyAttempts; i++ {
		old = p.cipher.Load().(*chacha20.Cipher)

		stream, err := newCipher(p.config.EntropySource)
		if err == nil {
			p.cipher.Store(stream)
			atomic.StoreUint64(&p.usage, 0)
			*old = chacha20.Cipher{}
			return
		}

		var b [8]byte
		if _, err := io.ReadFull(defaultEntropySource(), b[:]); err == nil {
			rnd := binary.BigEndian.Uint64(b[:])
			delay := base + time.Duration(rnd%uint64(base))
			time.Sleep(delay)
		} else {
			time.Sleep(base)
		}

		base *= 2
		if base > backoffCap {
			base = backoffCap
		}
	}
}
