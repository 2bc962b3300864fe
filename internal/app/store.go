package app

import (
	"context"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"service_directory/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// isoMillis matches the ISO-8601 form used for stored timestamps.
const isoMillis = "2006-01-02T15:04:05.000Z"

// ListingStore owns the business collection. The in-memory collection is the
// source of truth; every mutation rewrites the whole collection to storage.
type ListingStore struct {
	storage domain.KeyValueStore
	log     zerolog.Logger
	seed    func() []domain.Business
	now     func() time.Time

	mu         sync.RWMutex
	businesses []domain.Business

	version uint64 // bumped under mu by every state change

	subMu     sync.Mutex
	subs      map[int]func([]domain.Business)
	nextID    int
	pubMu     sync.Mutex
	delivered uint64
}

type StoreOption func(*ListingStore)

// WithSeed replaces the built-in sample set.
func WithSeed(seed []domain.Business) StoreOption {
	return func(s *ListingStore) {
		s.seed = func() []domain.Business { return cloneAll(seed) }
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *ListingStore) { s.now = now }
}

func NewListingStore(storage domain.KeyValueStore, log zerolog.Logger, opts ...StoreOption) *ListingStore {
	s := &ListingStore{
		storage: storage,
		log:     log,
		seed:    SeedBusinesses,
		now:     time.Now,
		subs:    map[int]func([]domain.Business){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize restores the persisted collection when its version tag matches,
// otherwise it reseeds and persists the seed. It never fails.
func (s *ListingStore) Initialize(ctx context.Context) []domain.Business {
	loaded, ok := s.load(ctx)

	s.mu.Lock()
	if ok {
		s.businesses = loaded
	} else {
		s.businesses = s.seed()
		s.setQuiet(ctx, domain.KeyBusinessesVersion, domain.SchemaVersion)
		s.persistLocked(ctx)
	}
	version, snap := s.commitLocked()
	s.mu.Unlock()

	s.log.Info().Int("businesses", len(snap)).Bool("restored", ok).Msg("listing store initialized")
	s.publish(version, snap)
	return snap
}

func (s *ListingStore) load(ctx context.Context) ([]domain.Business, bool) {
	version, ok, err := s.storage.Get(ctx, domain.KeyBusinessesVersion)
	if err != nil {
		s.log.Error().Err(err).Msg("error loading businesses version")
		return nil, false
	}
	if !ok || version != domain.SchemaVersion {
		if ok {
			s.log.Warn().Str("stored", version).Str("current", domain.SchemaVersion).Msg("schema version mismatch, reseeding")
		}
		return nil, false
	}
	raw, ok, err := s.storage.Get(ctx, domain.KeyBusinesses)
	if err != nil {
		s.log.Error().Err(err).Msg("error loading businesses")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out []domain.Business
	if err := json.UnmarshalFromString(raw, &out); err != nil {
		s.log.Error().Err(err).Msg("stored businesses are corrupt, reseeding")
		return nil, false
	}
	if len(out) == 0 {
		s.log.Warn().Msg("stored businesses are empty, reseeding")
		return nil, false
	}
	seen := make(map[int64]struct{}, len(out))
	for _, b := range out {
		if _, dup := seen[b.ID]; dup {
			s.log.Error().Int64("id", b.ID).Msg("stored businesses contain duplicate ids, reseeding")
			return nil, false
		}
		seen[b.ID] = struct{}{}
	}
	return out, true
}

// Create validates and prepends a new unverified listing.
func (s *ListingStore) Create(ctx context.Context, in domain.NewBusiness) (domain.Business, error) {
	if err := check(in); err != nil {
		return domain.Business{}, err
	}

	s.mu.Lock()
	var maxID int64
	for _, b := range s.businesses {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	nb := domain.Business{
		ID:          maxID + 1,
		Name:        in.Name,
		OwnerName:   in.OwnerName,
		Category:    in.Category,
		City:        in.City,
		Address:     in.Address,
		Phone:       in.Phone,
		Description: in.Description,
		Verified:    false,
		Reviews:     []domain.Review{},
		CreatedAt:   s.stamp(),
	}
	s.businesses = append([]domain.Business{nb}, s.businesses...)
	s.persistLocked(ctx)
	version, snap := s.commitLocked()
	s.mu.Unlock()

	s.log.Info().Int64("id", nb.ID).Str("name", nb.Name).Msg("business created")
	s.publish(version, snap)
	return nb.Clone(), nil
}

// SetVerified replaces the verification flag. Unknown ids are ignored.
func (s *ListingStore) SetVerified(ctx context.Context, id int64, verified bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug().Int64("id", id).Msg("set verified: business not found")
		return
	}
	s.businesses[i].Verified = verified
	s.persistLocked(ctx)
	version, snap := s.commitLocked()
	s.mu.Unlock()

	s.log.Info().Int64("id", id).Bool("verified", verified).Msg("business verification updated")
	s.publish(version, snap)
}

// AddReview appends a review and recomputes the aggregate rating.
// Unknown business ids are ignored; only validation errors are returned.
func (s *ListingStore) AddReview(ctx context.Context, businessID int64, in domain.NewReview) error {
	if err := check(in); err != nil {
		return err
	}

	s.mu.Lock()
	i := s.indexLocked(businessID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug().Int64("id", businessID).Msg("add review: business not found")
		return nil
	}
	b := &s.businesses[i]
	reviews := make([]domain.Review, len(b.Reviews), len(b.Reviews)+1)
	copy(reviews, b.Reviews)
	b.Reviews = append(reviews, domain.Review{
		UserName:  in.UserName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.stamp(),
	})
	b.Rating = AggregateRating(b.Reviews)
	s.persistLocked(ctx)
	version, snap := s.commitLocked()
	s.mu.Unlock()

	s.log.Info().Int64("id", businessID).Int("rating", in.Rating).Msg("review added")
	s.publish(version, snap)
	return nil
}

func (s *ListingStore) FindByID(id int64) (domain.Business, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.businesses[i].Clone(), true
	}
	return domain.Business{}, false
}

// Snapshot returns a copy of the ordered collection.
func (s *ListingStore) Snapshot() []domain.Business {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.businesses)
}

// Subscribe registers fn to receive a fresh snapshot after every mutation.
// Snapshots arrive in mutation order; one overtaken by a newer state is
// dropped. fn must not mutate the store.
func (s *ListingStore) Subscribe(fn func([]domain.Business)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// commitLocked stamps the current state and copies it for subscribers.
func (s *ListingStore) commitLocked() (uint64, []domain.Business) {
	s.version++
	return s.version, cloneAll(s.businesses)
}

func (s *ListingStore) publish(version uint64, snap []domain.Business) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.subMu.Lock()
	fns := make([]func([]domain.Business), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(cloneAll(snap))
	}
}

func (s *ListingStore) indexLocked(id int64) int {
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *ListingStore) stamp() string {
	return s.now().UTC().Format(isoMillis)
}

// persistLocked rewrites the full collection. Failures are logged only.
func (s *ListingStore) persistLocked(ctx context.Context) {
	raw, err := json.MarshalToString(s.businesses)
	if err != nil {
		s.log.Error().Err(err).Msg("error encoding businesses")
		return
	}
	s.setQuiet(ctx, domain.KeyBusinesses, raw)
}

func (s *ListingStore) setQuiet(ctx context.Context, key, value string) {
	if err := s.storage.Set(ctx, key, value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("error saving to storage")
	}
}

func cloneAll(in []domain.Business) []domain.Business {
	if in == nil {
		return nil
	}
	out := make([]domain.Business, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}
