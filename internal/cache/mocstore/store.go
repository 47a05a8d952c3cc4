// Package mocstore persists named coverage indexes in Redis and keeps the decoded
// form of recently used ones in process.
package mocstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/healpix-geo/internal/cache/keys"
	"github.com/mohammed-shakir/healpix-geo/internal/cache/redisstore"
	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/core/observability"
	"github.com/mohammed-shakir/healpix-geo/internal/moc"
)

var ErrNotFound = fmt.Errorf("coverage not found: %w", geoerr.ErrLookup)

// Backend is the subset of redisstore.Client the store needs.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) (map[string][]byte, error)
	SetMany(ctx context.Context, kv map[string][]byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
}

type Config struct {
	TTL       time.Duration // zero keeps coverages forever
	LRUSize   int
	OpTimeout time.Duration
}

type entry struct {
	fingerprint string
	index       *moc.Index
}

type Store struct {
	be  Backend
	cfg Config
	lru *lru.Cache[string, entry]
	log *slog.Logger
}

func New(be Backend, cfg Config, log *slog.Logger) (*Store, error) {
	if cfg.LRUSize < 1 {
		cfg.LRUSize = 256
	}
	if log == nil {
		log = slog.Default()
	}
	c, err := lru.New[string, entry](cfg.LRUSize)
	if err != nil {
		return nil, fmt.Errorf("mocstore lru: %w", err)
	}
	return &Store{be: be, cfg: cfg, lru: c, log: log}, nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

// Put stores ix under name, replacing any previous coverage, and returns its
// fingerprint.
func (s *Store) Put(ctx context.Context, name string, ix *moc.Index) (string, error) {
	key, err := keys.NormalizeName(name)
	if err != nil {
		return "", err
	}
	payload, err := ix.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("mocstore encode %q: %w", key, err)
	}
	fp := keys.Fingerprint(payload)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err = s.be.SetMany(ctx, map[string][]byte{
		keys.MOCKey(key):         payload,
		keys.FingerprintKey(key): []byte(fp),
	}, s.cfg.TTL)
	if err != nil {
		s.lru.Remove(key)
		return "", fmt.Errorf("mocstore put %q: %w", key, err)
	}
	s.lru.Add(key, entry{fingerprint: fp, index: ix})
	s.log.DebugContext(ctx, "coverage stored", "name", key, "ranges", len(ix.Ranges()), "fingerprint", fp)
	return fp, nil
}

// Get returns the coverage stored under name. A cached copy is only served while
// its fingerprint matches the one in Redis.
func (s *Store) Get(ctx context.Context, name string) (*moc.Index, error) {
	key, err := keys.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if cached, ok := s.lru.Get(key); ok {
		fp, err := s.be.Get(ctx, keys.FingerprintKey(key))
		switch {
		case err == nil && string(fp) == cached.fingerprint:
			observability.IncLRUHit()
			return cached.index, nil
		case errors.Is(err, redisstore.ErrNotFound):
			s.lru.Remove(key)
			observability.IncLRUMiss()
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		case err != nil:
			return nil, fmt.Errorf("mocstore get %q: %w", key, err)
		}
	}
	observability.IncLRUMiss()

	dataKey, fpKey := keys.MOCKey(key), keys.FingerprintKey(key)
	vals, err := s.be.MGet(ctx, []string{dataKey, fpKey})
	if err != nil {
		return nil, fmt.Errorf("mocstore get %q: %w", key, err)
	}
	raw, ok := vals[dataKey]
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	ix, err := moc.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("mocstore decode %q: %w", key, err)
	}
	fp := string(vals[fpKey])
	if fp == "" {
		fp = keys.Fingerprint(raw)
	}
	s.lru.Add(key, entry{fingerprint: fp, index: ix})
	s.log.DebugContext(ctx, "coverage loaded", "name", key, "bytes", len(raw), "fingerprint", fp)
	return ix, nil
}

// Delete removes the coverage and reports whether it existed.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	key, err := keys.NormalizeName(name)
	if err != nil {
		return false, err
	}
	s.lru.Remove(key)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	n, err := s.be.Del(ctx, keys.MOCKey(key), keys.FingerprintKey(key))
	if err != nil {
		return false, fmt.Errorf("mocstore delete %q: %w", key, err)
	}
	s.log.DebugContext(ctx, "coverage deleted", "name", key, "keys", n)
	return n > 0, nil
}
