package mocstore

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/mohammed-shakir/healpix-geo/internal/cache/keys"
	"github.com/mohammed-shakir/healpix-geo/internal/cache/redisstore"
	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/moc"
)

func newMini(t *testing.T, cfg Config) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	cli, err := redisstore.New(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("redisstore.New: %v", err)
	}
	t.Cleanup(func() { _ = cli.Close() })

	s, err := New(cli, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, mr
}

func mustIndex(t *testing.T, depth uint8, cells ...uint64) *moc.Index {
	t.Helper()
	ix, err := moc.FromCellIDs(depth, cells)
	if err != nil {
		t.Fatalf("FromCellIDs: %v", err)
	}
	return ix
}

func TestStore_PutGet_RoundTrip(t *testing.T) {
	s, mr := newMini(t, Config{TTL: 2 * time.Minute})
	ctx := context.Background()

	ix := mustIndex(t, 3, 12, 16, 17, 19, 22, 23, 71, 72, 73, 79)
	fp, err := s.Put(ctx, "north sea", ix)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := mr.TTL(keys.MOCKey("north_sea")); got != 2*time.Minute {
		t.Fatalf("ttl=%v want 2m", got)
	}
	stored, _ := mr.Get(keys.FingerprintKey("north_sea"))
	if stored != fp {
		t.Fatalf("fingerprint key=%q want %q", stored, fp)
	}

	// a second store over the same Redis has a cold LRU
	other, err := New(s.be, Config{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := other.Get(ctx, "north sea")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(ix.CellIDs(), got.CellIDs()); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if got.Depth() != 3 {
		t.Fatalf("depth=%d want 3", got.Depth())
	}
}

func TestStore_LRUServesOnlyMatchingFingerprint(t *testing.T) {
	s, _ := newMini(t, Config{})
	ctx := context.Background()

	first := mustIndex(t, 1, 1, 2, 3)
	if _, err := s.Put(ctx, "zone", first); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "zone")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != first {
		t.Fatalf("expected the cached index pointer on a fresh entry")
	}

	// another process replaces the coverage behind this store's back
	writer, err := New(s.be, Config{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second := mustIndex(t, 1, 40, 41)
	if _, err := writer.Put(ctx, "zone", second); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err = s.Get(ctx, "zone")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Equal(second) {
		t.Fatalf("stale cached coverage served: %v", got)
	}
}

func TestStore_DeleteAndMissing(t *testing.T) {
	s, _ := newMini(t, Config{})
	ctx := context.Background()

	if _, err := s.Put(ctx, "gone", mustIndex(t, 0, 5)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	existed, err := s.Delete(ctx, "gone")
	if err != nil || !existed {
		t.Fatalf("Delete existed=%v err=%v", existed, err)
	}
	if _, err := s.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) || !errors.Is(err, geoerr.ErrLookup) {
		t.Fatalf("expected not found lookup error, got %v", err)
	}
	existed, err = s.Delete(ctx, "gone")
	if err != nil || existed {
		t.Fatalf("second Delete existed=%v err=%v", existed, err)
	}
}

func TestStore_ExpiredWhileCached(t *testing.T) {
	s, mr := newMini(t, Config{TTL: time.Minute})
	ctx := context.Background()

	if _, err := s.Put(ctx, "short", mustIndex(t, 2, 7)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := s.Get(ctx, "short"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired coverage to be missing, got %v", err)
	}
}

func TestStore_CorruptPayload(t *testing.T) {
	s, mr := newMini(t, Config{})
	_ = mr.Set(keys.MOCKey("bad"), "not a coverage")
	if _, err := s.Get(context.Background(), "bad"); !errors.Is(err, moc.ErrMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestStore_InvalidName(t *testing.T) {
	s, _ := newMini(t, Config{})
	if _, err := s.Put(context.Background(), "  ", mustIndex(t, 0, 1)); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
