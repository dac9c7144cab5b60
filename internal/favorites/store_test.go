package favorites

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-lookup/internal/domain"
	"github.com/couchcryptid/weather-lookup/internal/observability"
	"github.com/couchcryptid/weather-lookup/internal/storage"
)

// --- test doubles ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.FavoriteEvent
	err    error
}

func (n *recordingNotifier) PublishFavorite(_ context.Context, e domain.FavoriteEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

// countingKV wraps a store and counts writes.
type countingKV struct {
	storage.Store
	puts   int
	putErr error
}

func (c *countingKV) Put(ctx context.Context, key string, value []byte) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	return c.Store.Put(ctx, key, value)
}

func newKV(t *testing.T) *countingKV {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return &countingKV{Store: fs}
}

func newTestStore(t *testing.T, kv storage.Store, n Notifier) (*Store, *observability.Metrics) {
	t.Helper()
	m := observability.NewMetricsForTesting()
	return New(context.Background(), kv, n, m, slog.New(slog.NewTextHandler(io.Discard, nil))), m
}

func kobe() domain.ResolvedLocation {
	return domain.ResolvedLocation{
		Candidate: domain.Candidate{
			Source:      domain.ProvenanceOpenMeteo,
			ID:          1859171,
			Name:        "神戸市",
			Admin1:      "兵庫県",
			CountryCode: "JP",
			Latitude:    34.6913,
			Longitude:   135.183,
		},
		PostalCode: "6500001",
		Address:    "神戸市中央区加納町",
	}
}

// --- tests ---

func TestStore_EmptyStartListsFixed(t *testing.T) {
	s, m := newTestStore(t, newKV(t), nil)

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "西宮市", list[0].Name)
	assert.Equal(t, "大阪市中央区", list[1].Name)
	assert.Equal(t, "尼崎市", list[2].Name)
	assert.Empty(t, s.UserEntries())
	assert.InDelta(t, 0, testutil.ToFloat64(m.FavoritesCount), 0)
}

func TestStore_IsFixed(t *testing.T) {
	s, _ := newTestStore(t, newKV(t), nil)

	assert.True(t, s.IsFixed(domain.ResolvedLocation{Candidate: domain.Candidate{Name: "西宮市", Admin1: "兵庫県"}}))
	assert.False(t, s.IsFixed(domain.ResolvedLocation{Candidate: domain.Candidate{Name: "西宮市", Admin1: domain.GSIRegionMarker}}))
	assert.False(t, s.IsFixed(kobe()))
}

func TestStore_ToggleAddsThenRemoves(t *testing.T) {
	kv := newKV(t)
	n := &recordingNotifier{}
	s, m := newTestStore(t, kv, n)
	ctx := context.Background()

	fav, err := s.Toggle(ctx, kobe())
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Equal(t, []domain.ResolvedLocation{kobe()}, s.UserEntries())
	assert.Len(t, s.List(), 4)
	assert.True(t, s.Contains(kobe()))
	assert.InDelta(t, 1, testutil.ToFloat64(m.FavoritesCount), 0)

	// Same identity, different coordinates: still the same favorite.
	moved := kobe()
	moved.Latitude = 34.7
	fav, err = s.Toggle(ctx, moved)
	require.NoError(t, err)
	assert.False(t, fav)
	assert.Empty(t, s.UserEntries())
	assert.False(t, s.Contains(kobe()))

	assert.Equal(t, 2, kv.puts)
	require.Len(t, n.events, 2)
	assert.Equal(t, domain.FavoriteAdded, n.events[0].Action)
	assert.Equal(t, domain.FavoriteRemoved, n.events[1].Action)
	assert.Equal(t, kobe(), n.events[1].Location, "event carries the stored entry")
}

func TestStore_ToggleFixedIsNoOp(t *testing.T) {
	kv := newKV(t)
	n := &recordingNotifier{}
	s, _ := newTestStore(t, kv, n)
	ctx := context.Background()

	_, err := s.Toggle(ctx, kobe())
	require.NoError(t, err)
	before := s.UserEntries()
	putsBefore := kv.puts

	fav, err := s.Toggle(ctx, domain.ResolvedLocation{Candidate: domain.Candidate{Name: "西宮市", Admin1: "兵庫県"}})
	require.NoError(t, err)

	assert.True(t, fav)
	assert.Equal(t, before, s.UserEntries())
	assert.Equal(t, putsBefore, kv.puts, "no write for a no-op")
	assert.Len(t, n.events, 1)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()

	s1, _ := newTestStore(t, kv, nil)
	_, err := s1.Toggle(ctx, kobe())
	require.NoError(t, err)

	s2, m := newTestStore(t, kv, nil)
	assert.Equal(t, []domain.ResolvedLocation{kobe()}, s2.UserEntries())
	assert.InDelta(t, 1, testutil.ToFloat64(m.FavoritesCount), 0)

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"name":"神戸市"`)
	assert.Contains(t, string(raw), `"postalCode":"6500001"`)
}

func TestStore_CorruptValueStartsEmpty(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()
	require.NoError(t, kv.Put(ctx, StorageKey, []byte("{not json")))

	s, _ := newTestStore(t, kv, nil)
	assert.Empty(t, s.UserEntries())
	assert.Len(t, s.List(), 3)

	_, err := s.Toggle(ctx, kobe())
	require.NoError(t, err)
	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"source":"open-meteo","id":1859171,"name":"神戸市","admin1":"兵庫県","country_code":"JP","latitude":34.6913,"longitude":135.183,"postalCode":"6500001","address":"神戸市中央区加納町"}]`, string(raw))
}

func TestStore_ListFiltersCollisions(t *testing.T) {
	kv := newKV(t)
	ctx := context.Background()
	// A stored user entry shadowing a fixed one, e.g. written by an older client.
	require.NoError(t, kv.Put(ctx, StorageKey, []byte(`[{"name":"尼崎市","admin1":"兵庫県","latitude":1,"longitude":2},{"name":"神戸市","admin1":"兵庫県"}]`)))

	s, _ := newTestStore(t, kv, nil)

	assert.Len(t, s.UserEntries(), 2)
	list := s.List()
	require.Len(t, list, 4)
	assert.InDelta(t, 34.7338, list[2].Latitude, 1e-9, "fixed entry wins")
	assert.Equal(t, "神戸市", list[3].Name)
}

func TestStore_RemoveExactEntry(t *testing.T) {
	kv := newKV(t)
	n := &recordingNotifier{}
	s, _ := newTestStore(t, kv, n)
	ctx := context.Background()

	_, err := s.Toggle(ctx, kobe())
	require.NoError(t, err)

	other := kobe()
	other.PostalCode = "0000000"
	removed, err := s.Remove(ctx, other)
	require.NoError(t, err)
	assert.False(t, removed, "a different value is not the stored entry")
	assert.Equal(t, 1, kv.puts)

	removed, err = s.Remove(ctx, kobe())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, s.UserEntries())
	assert.Equal(t, 2, kv.puts)
	require.Len(t, n.events, 2)
	assert.Equal(t, domain.FavoriteRemoved, n.events[1].Action)
}

func TestStore_PersistFailureKeepsState(t *testing.T) {
	kv := newKV(t)
	kv.putErr = errors.New("disk full")
	n := &recordingNotifier{}
	s, _ := newTestStore(t, kv, n)

	_, err := s.Toggle(context.Background(), kobe())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, s.UserEntries())
	assert.Empty(t, n.events)
}

func TestStore_NotifierFailureIsNotFatal(t *testing.T) {
	n := &recordingNotifier{err: errors.New("broker down")}
	s, _ := newTestStore(t, newKV(t), n)

	fav, err := s.Toggle(context.Background(), kobe())
	require.NoError(t, err)
	assert.True(t, fav)
	assert.Len(t, n.events, 1)
}

func TestStore_EventFields(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	domain.SetClock(fake)
	t.Cleanup(func() { domain.SetClock(nil) })

	n := &recordingNotifier{}
	s, _ := newTestStore(t, newKV(t), n)

	_, err := s.Toggle(context.Background(), kobe())
	require.NoError(t, err)

	require.Len(t, n.events, 1)
	e := n.events[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 1, e.UserCount)
	assert.Equal(t, fake.Now(), e.OccurredAt)
}

func TestStore_ConcurrentToggles(t *testing.T) {
	s, _ := newTestStore(t, newKV(t), nil)
	ctx := context.Background()

	names := []string{"神戸市", "京都市", "奈良市", "堺市", "姫路市", "芦屋市"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Toggle(ctx, domain.ResolvedLocation{Candidate: domain.Candidate{Name: name, Admin1: "x"}})
		}()
	}
	wg.Wait()

	assert.Len(t, s.UserEntries(), len(names))
}
