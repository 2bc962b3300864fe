package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"service_directory/internal/app"
	"service_directory/internal/domain"
	"service_directory/internal/storage/memory"
)

var fixedNow = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newStore(t *testing.T, storage domain.KeyValueStore, opts ...app.StoreOption) *app.ListingStore {
	t.Helper()
	opts = append([]app.StoreOption{app.WithClock(func() time.Time { return fixedNow })}, opts...)
	return app.NewListingStore(storage, zerolog.Nop(), opts...)
}

func validBusiness(name string) domain.NewBusiness {
	return domain.NewBusiness{
		Name:      name,
		OwnerName: "Owner",
		Category:  "Plumbing",
		City:      "Mumbai",
		Phone:     "+91 90000 00000",
	}
}

// ---- initialize ----

func TestInitialize_SeedsEmptyStorage(t *testing.T) {
	rq := require.New(t)
	storage := memory.NewDurable()
	s := newStore(t, storage)

	got := s.Initialize(context.Background())
	rq.Equal(app.SeedBusinesses(), got)

	version, ok, _ := storage.Get(context.Background(), domain.KeyBusinessesVersion)
	rq.True(ok)
	rq.Equal(domain.SchemaVersion, version)
	_, ok, _ = storage.Get(context.Background(), domain.KeyBusinesses)
	rq.True(ok, "seed must be persisted immediately")
}

func TestInitialize_RoundTripWithMatchingVersion(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()

	first := newStore(t, storage)
	first.Initialize(ctx)
	_, err := first.Create(ctx, validBusiness("X"))
	rq.NoError(err)
	rq.NoError(first.AddReview(ctx, 3, domain.NewReview{UserName: "Asha", Rating: 4, Comment: "Good"}))
	first.SetVerified(ctx, 4, true)

	second := newStore(t, storage)
	rq.Equal(first.Snapshot(), second.Initialize(ctx))
}

func TestInitialize_VersionMismatchRestoresSeed(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	rq.NoError(storage.Set(ctx, domain.KeyBusinessesVersion, "v1"))
	rq.NoError(storage.Set(ctx, domain.KeyBusinesses, `[{"id":99,"name":"Stale","reviews":[],"createdAt":"2023-01-01"}]`))

	got := newStore(t, storage).Initialize(ctx)
	rq.Equal(app.SeedBusinesses(), got)

	version, _, _ := storage.Get(ctx, domain.KeyBusinessesVersion)
	rq.Equal(domain.SchemaVersion, version)

	// the stale payload is overwritten with the seed
	reloaded := newStore(t, storage).Initialize(ctx)
	rq.Equal(app.SeedBusinesses(), reloaded)
}

func TestInitialize_FallsBackToSeed(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{name: "corrupt json", payload: `[{"id":`},
		{name: "not an array", payload: `{"id":1}`},
		{name: "empty array", payload: `[]`},
		{name: "duplicate ids", payload: `[{"id":1,"name":"A"},{"id":1,"name":"B"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			storage := memory.NewDurable()
			require.NoError(t, storage.Set(ctx, domain.KeyBusinessesVersion, domain.SchemaVersion))
			require.NoError(t, storage.Set(ctx, domain.KeyBusinesses, tc.payload))

			got := newStore(t, storage).Initialize(ctx)
			require.Equal(t, app.SeedBusinesses(), got)
		})
	}
}

func TestInitialize_StorageUnavailable(t *testing.T) {
	rq := require.New(t)
	storage := memory.NewDurable()
	storage.FailReads = errors.New("storage unavailable")
	storage.FailWrites = errors.New("storage unavailable")

	s := newStore(t, storage)
	rq.NotPanics(func() { s.Initialize(context.Background()) })
	rq.Len(s.Snapshot(), 5)
}

// ---- create ----

func TestCreate_SeedScenario(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())
	s.Initialize(ctx)

	b, err := s.Create(ctx, validBusiness("X"))
	rq.NoError(err)
	rq.Equal(int64(6), b.ID)
	rq.False(b.Verified)
	rq.NotNil(b.Reviews)
	rq.Empty(b.Reviews)
	rq.Nil(b.Rating)
	rq.Equal("2025-03-01T10:00:00.000Z", b.CreatedAt)

	all := s.Snapshot()
	rq.Len(all, 6)
	rq.Equal("X", all[0].Name)
	rq.Equal(int64(6), all[0].ID)
}

func TestCreate_EmptyCollectionStartsAtOne(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable(), app.WithSeed(nil))
	s.Initialize(ctx)

	b, err := s.Create(ctx, validBusiness("First"))
	rq.NoError(err)
	rq.Equal(int64(1), b.ID)
}

func TestCreate_UsesMaxIDNotLength(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable(), app.WithSeed([]domain.Business{{ID: 10, Name: "A"}, {ID: 3, Name: "B"}}))
	s.Initialize(ctx)

	b, err := s.Create(ctx, validBusiness("C"))
	rq.NoError(err)
	rq.Equal(int64(11), b.ID)

	b, err = s.Create(ctx, validBusiness("D"))
	rq.NoError(err)
	rq.Equal(int64(12), b.ID)
	rq.Equal([]string{"D", "C", "A", "B"}, names(s.Snapshot()))
}

func TestCreate_ValidationAbortsWithoutMutation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	s := newStore(t, storage)
	s.Initialize(ctx)
	before := s.Snapshot()
	writes := storage.Writes()

	_, err := s.Create(ctx, domain.NewBusiness{Name: "Only name"})
	var ve *domain.ValidationError
	rq.ErrorAs(err, &ve)
	rq.ElementsMatch([]string{"category", "city", "phone"}, ve.Fields)

	rq.Equal(before, s.Snapshot())
	rq.Equal(writes, storage.Writes())
}

func TestCreate_PersistFailureKeepsMemoryState(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	s := newStore(t, storage)
	s.Initialize(ctx)

	storage.FailWrites = errors.New("quota exceeded")
	b, err := s.Create(ctx, validBusiness("Offline"))
	rq.NoError(err)
	got, ok := s.FindByID(b.ID)
	rq.True(ok)
	rq.Equal("Offline", got.Name)
}

// ---- verification ----

func TestSetVerified(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	s := newStore(t, storage)
	s.Initialize(ctx)

	s.SetVerified(ctx, 5, true)
	b, _ := s.FindByID(5)
	rq.True(b.Verified)

	s.SetVerified(ctx, 5, false)
	b, _ = s.FindByID(5)
	rq.False(b.Verified)

	reloaded := newStore(t, storage).Initialize(ctx)
	rq.False(reloaded[4].Verified)
}

func TestSetVerified_UnknownIDIsNoop(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	s := newStore(t, storage)
	s.Initialize(ctx)
	before := s.Snapshot()
	writes := storage.Writes()

	s.SetVerified(ctx, 404, true)

	rq.Equal(before, s.Snapshot())
	rq.Equal(writes, storage.Writes())
}

// ---- reviews ----

func TestAddReview_RatingScenario(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())
	s.Initialize(ctx)
	b, err := s.Create(ctx, validBusiness("Fresh"))
	rq.NoError(err)
	rq.Nil(b.Rating)

	rq.NoError(s.AddReview(ctx, b.ID, domain.NewReview{UserName: "A", Rating: 5, Comment: "great"}))
	got, _ := s.FindByID(b.ID)
	rq.NotNil(got.Rating)
	rq.Equal(5.0, *got.Rating)

	rq.NoError(s.AddReview(ctx, b.ID, domain.NewReview{UserName: "B", Rating: 3, Comment: "ok"}))
	got, _ = s.FindByID(b.ID)
	rq.Equal(4.0, *got.Rating)
	rq.Len(got.Reviews, 2)
	rq.Equal("A", got.Reviews[0].UserName)
	rq.Equal("B", got.Reviews[1].UserName)
	rq.Equal("2025-03-01T10:00:00.000Z", got.Reviews[1].CreatedAt)
}

func TestAddReview_RecomputesFromFullReviewSet(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())
	s.Initialize(ctx)

	// seed listing 1 stores 4.8 over reviews 5 and 4; an incremental update
	// from the stored aggregate would give 4.2 instead of 4.0.
	rq.NoError(s.AddReview(ctx, 1, domain.NewReview{UserName: "C", Rating: 3, Comment: "meh"}))
	got, _ := s.FindByID(1)
	rq.Equal(*app.AggregateRating(got.Reviews), *got.Rating)
	rq.Equal(4.0, *got.Rating)
}

func TestAddReview_UnknownBusinessIsNoop(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	s := newStore(t, storage)
	s.Initialize(ctx)
	before := s.Snapshot()
	writes := storage.Writes()

	rq.NoError(s.AddReview(ctx, 404, domain.NewReview{UserName: "A", Rating: 5, Comment: "x"}))
	rq.Equal(before, s.Snapshot())
	rq.Equal(writes, storage.Writes())
}

func TestAddReview_Validation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())
	s.Initialize(ctx)

	cases := []struct {
		name   string
		review domain.NewReview
		field  string
	}{
		{name: "rating below range", review: domain.NewReview{UserName: "A", Rating: 0, Comment: "x"}, field: "rating"},
		{name: "rating above range", review: domain.NewReview{UserName: "A", Rating: 6, Comment: "x"}, field: "rating"},
		{name: "missing name", review: domain.NewReview{Rating: 3, Comment: "x"}, field: "user_name"},
		{name: "missing comment", review: domain.NewReview{UserName: "A", Rating: 3}, field: "comment"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.AddReview(ctx, 1, tc.review)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Contains(t, ve.Fields, tc.field)
		})
	}
	b, _ := s.FindByID(1)
	require.Len(t, b.Reviews, 2)
}

// ---- reads & subscriptions ----

func TestFindByID(t *testing.T) {
	rq := require.New(t)
	s := newStore(t, memory.NewDurable())
	s.Initialize(context.Background())

	b, ok := s.FindByID(2)
	rq.True(ok)
	rq.Equal("Dr. Priya Health Clinic", b.Name)

	// returned records are copies
	b.Reviews[0].Comment = "tampered"
	again, _ := s.FindByID(2)
	rq.NotEqual("tampered", again.Reviews[0].Comment)

	_, ok = s.FindByID(404)
	rq.False(ok)
}

func TestSubscribe_ReceivesSnapshotsUntilUnsubscribed(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())

	var got [][]domain.Business
	unsubscribe := s.Subscribe(func(bs []domain.Business) { got = append(got, bs) })

	s.Initialize(ctx)
	_, err := s.Create(ctx, validBusiness("X"))
	rq.NoError(err)
	s.SetVerified(ctx, 404, true) // no-op emits nothing
	rq.Len(got, 2)
	rq.Len(got[0], 5)
	rq.Len(got[1], 6)

	// snapshots are immutable from the store's point of view
	got[1][0].Name = "changed"
	current, _ := s.FindByID(6)
	rq.Equal("X", current.Name)

	unsubscribe()
	s.SetVerified(ctx, 6, true)
	rq.Len(got, 2)
}

func TestSubscribe_LastDeliveryMatchesStoreUnderConcurrentWrites(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	s := newStore(t, memory.NewDurable())
	s.Initialize(ctx)

	var calls atomic.Int32
	var mu sync.Mutex
	var last int
	entered := make(chan struct{})
	release := make(chan struct{})
	s.Subscribe(func(bs []domain.Business) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release // first delivery stalls while another write lands
		}
		mu.Lock()
		last = len(bs)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	create := func(name string) {
		defer wg.Done()
		_, err := s.Create(ctx, validBusiness(name))
		errs <- err
	}
	wg.Add(2)
	go create("A")
	<-entered
	go create("B")
	rq.Eventually(func() bool { return len(s.Snapshot()) == 7 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		rq.NoError(err)
	}

	mu.Lock()
	defer mu.Unlock()
	rq.Equal(7, last)
}

func TestInitialize_SeedReviewsPersistAsEmptyList(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	storage := memory.NewDurable()
	newStore(t, storage).Initialize(ctx)

	raw, ok, err := storage.Get(ctx, domain.KeyBusinesses)
	rq.NoError(err)
	rq.True(ok)
	rq.False(strings.Contains(raw, `"reviews":null`), raw)
	for _, b := range app.SeedBusinesses() {
		rq.NotNil(b.Reviews, b.Name)
	}
}

func names(bs []domain.Business) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.Name
	}
	return out
}
