package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/entity"
	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/internal/repository/contract"
	"estate-listing-be/internal/repository/specification"
	"estate-listing-be/internal/repository/unitofwork"
	"estate-listing-be/pkg/events"
	pktNats "estate-listing-be/pkg/nats"

	"github.com/google/uuid"
)

var errStore = errors.New("store unavailable")

// fakeListingRepository keeps listings in memory and understands the
// specifications the services use.
type fakeListingRepository struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*entity.Listing
	failRead bool
}

func newFakeListingRepository(listings ...*entity.Listing) *fakeListingRepository {
	r := &fakeListingRepository{listings: map[uuid.UUID]*entity.Listing{}}
	for _, l := range listings {
		r.listings[l.Id] = l
	}
	return r
}

func (r *fakeListingRepository) get(id uuid.UUID) *entity.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil
	}
	c := *l
	return &c
}

func (r *fakeListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *listing
	r.listings[listing.Id] = &c
	return nil
}

func (r *fakeListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	return r.Create(ctx, listing)
}

func (r *fakeListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepository) query(specs []specification.Specification) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead {
		return nil, errStore
	}

	var out []*entity.Listing
	var page *specification.Pagination
	for _, l := range r.listings {
		match := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				match = match && l.Id == s.ID
			case specification.ByStatus:
				match = match && l.Status == s.Status
			case specification.CreatedBy:
				match = match && l.CreatedBy == s.UserID
			case specification.Pagination:
				p := s
				page = &p
			}
		}
		if match {
			c := *l
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if page != nil {
		if page.Offset >= len(out) {
			return nil, nil
		}
		out = out[page.Offset:]
		if len(out) > page.Limit {
			out = out[:page.Limit]
		}
	}
	return out, nil
}

func (r *fakeListingRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Listing, error) {
	out, err := r.query(specs)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

func (r *fakeListingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Listing, error) {
	return r.query(specs)
}

func (r *fakeListingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var filters []specification.Specification
	for _, s := range specs {
		if _, ok := s.(specification.Pagination); !ok {
			filters = append(filters, s)
		}
	}
	out, err := r.query(filters)
	return int64(len(out)), err
}

type fakeUnitOfWork struct {
	repo    *fakeListingRepository
	began   bool
	commits int
	rolls   int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.began = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.commits++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolls++; return nil }
func (u *fakeUnitOfWork) ListingRepository() contract.ListingRepository {
	return u.repo
}

type fakeFactory struct {
	repo *fakeListingRepository
	last *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	f.last = &fakeUnitOfWork{repo: f.repo}
	return f.last
}

// fakeRenderCache counts hits so tests can tell cached renders apart.
type fakeRenderCache struct {
	mu      sync.Mutex
	entries map[string]string
	gets    int
	hits    int
	fail    bool
}

func newFakeRenderCache() *fakeRenderCache {
	return &fakeRenderCache{entries: map[string]string{}}
}

func (c *fakeRenderCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.fail {
		return "", false, errStore
	}
	v, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *fakeRenderCache) Set(ctx context.Context, key, html string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errStore
	}
	c.entries[key] = html
	return nil
}

func (c *fakeRenderCache) Delete(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errStore
	}
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *fakeRenderCache) keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var keys []string
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type fakeWarmupPublisher struct {
	mu   sync.Mutex
	sent []dto.RenderListingDescriptionMessage
	err  error
}

func (p *fakeWarmupPublisher) PublishRenderDescription(ctx context.Context, msg dto.RenderListingDescriptionMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

type fakeEventBus struct {
	mu        sync.Mutex
	published []events.Event
	handlers  map[string]pktNats.EventHandler
}

func (b *fakeEventBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	return nil
}

func (b *fakeEventBus) Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers == nil {
		b.handlers = map[string]pktNats.EventHandler{}
	}
	b.handlers[eventType] = handler
	return nil
}

// deliver hands event to the subscribed handler, as the broker would.
func (b *fakeEventBus) deliver(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	h := b.handlers[event.EventType()]
	b.mu.Unlock()
	if h == nil {
		return nil
	}
	return h(ctx, event)
}

func (b *fakeEventBus) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.published {
		out = append(out, e.EventType())
	}
	return out
}

type fixture struct {
	repo         *fakeListingRepository
	factory      *fakeFactory
	cache        *fakeRenderCache
	warmup       *fakeWarmupPublisher
	bus          *fakeEventBus
	descriptions IDescriptionService
	listings     IListingService
}

func newFixture(listings ...*entity.Listing) *fixture {
	f := &fixture{
		repo:   newFakeListingRepository(listings...),
		cache:  newFakeRenderCache(),
		warmup: &fakeWarmupPublisher{},
		bus:    &fakeEventBus{},
	}
	f.factory = &fakeFactory{repo: f.repo}
	log := logger.NewNopLogger()
	f.descriptions = NewDescriptionService(f.cache, "id", time.Hour, 100, log)
	f.listings = NewListingService(f.factory, f.descriptions, f.warmup, f.bus, log)
	return f
}
