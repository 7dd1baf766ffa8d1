package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
	"github.com/animelist/watchlist-api/internal/infrastructure/crypto"
	"github.com/animelist/watchlist-api/internal/infrastructure/token"
)

var errBoom = errors.New("connection reset by peer")

// ── users ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu      sync.Mutex
	users   map[int64]*domain.User
	nextID  int64
	err     error
	updates int
	hashes  map[int64]string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), hashes: make(map[int64]string)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Insert(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.users[id]
	return ok, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.hashes[id] = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// ── catalog ───────────────────────────────────────────────────────────────────

type stubAnimeRepo struct {
	items   map[int64]domain.Anime
	nextID  int64
	err     error
	finds   int
	updates int
	// listed reports whether an anime is still on some list.
	listed func(id int64) bool
}

func newStubAnimeRepo(seed ...domain.Anime) *stubAnimeRepo {
	r := &stubAnimeRepo{items: make(map[int64]domain.Anime)}
	for _, a := range seed {
		r.items[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *stubAnimeRepo) Insert(_ context.Context, a *domain.Anime) error {
	if r.err != nil {
		return r.err
	}
	r.nextID++
	a.ID = r.nextID
	r.items[a.ID] = *a
	return nil
}

func (r *stubAnimeRepo) FindAll(context.Context) ([]domain.Anime, error) {
	r.finds++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.Anime, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubAnimeRepo) FindByID(_ context.Context, id int64) (*domain.Anime, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (r *stubAnimeRepo) SearchByPrefix(_ context.Context, prefix string) ([]domain.Anime, error) {
	var out []domain.Anime
	for _, a := range r.items {
		if strings.HasPrefix(strings.ToLower(a.Title), strings.ToLower(prefix)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAnimeRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.items[id]
	return ok, nil
}

func (r *stubAnimeRepo) Update(_ context.Context, a *domain.Anime) error {
	r.updates++
	if r.err != nil {
		return r.err
	}
	r.items[a.ID] = *a
	return nil
}

func (r *stubAnimeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	if r.listed != nil && r.listed(id) {
		return fmt.Errorf("%w: anime %d is still in a list", domain.ErrReferenceViolation, id)
	}
	delete(r.items, id)
	return nil
}

type stubCatalogCache struct {
	items       []domain.Anime
	cached      bool
	generation  int64
	err         error
	invalidated int
	staleWrites int
}

func (c *stubCatalogCache) GetAll(context.Context) (ports.CatalogSnapshot, error) {
	if c.err != nil {
		return ports.CatalogSnapshot{}, c.err
	}
	return ports.CatalogSnapshot{Items: c.items, Hit: c.cached, Generation: c.generation}, nil
}

func (c *stubCatalogCache) SetAll(_ context.Context, generation int64, items []domain.Anime) error {
	if c.err != nil {
		return c.err
	}
	if generation != c.generation {
		c.staleWrites++
		return nil
	}
	c.items, c.cached = items, true
	return nil
}

func (c *stubCatalogCache) Invalidate(context.Context) error {
	c.invalidated++
	c.generation++
	c.items, c.cached = nil, false
	return c.err
}

// ── lists ─────────────────────────────────────────────────────────────────────

type stubListRepo struct {
	lists  map[int64]domain.List
	nextID int64
	// users, when set, must hold the owner of every inserted list.
	users *stubUserRepo
}

func newStubListRepo() *stubListRepo {
	return &stubListRepo{lists: make(map[int64]domain.List)}
}

func (r *stubListRepo) Insert(ctx context.Context, l *domain.List) error {
	if r.users != nil {
		if ok, _ := r.users.Exists(ctx, l.UserID); !ok {
			return fmt.Errorf("%w: user %d does not exist", domain.ErrReferenceViolation, l.UserID)
		}
	}
	r.nextID++
	l.ID = r.nextID
	r.lists[l.ID] = *l
	return nil
}

func (r *stubListRepo) FindByUser(_ context.Context, userID int64) ([]domain.List, error) {
	var out []domain.List
	for _, l := range r.lists {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *stubListRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.lists[id]
	return ok, nil
}

func (r *stubListRepo) Owner(_ context.Context, id int64) (int64, error) {
	l, ok := r.lists[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return l.UserID, nil
}

func (r *stubListRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.lists[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.lists, id)
	return nil
}

type entryKey struct{ list, anime int64 }

type stubEntryRepo struct {
	entries map[entryKey]domain.ListEntry
	// lists and anime, when set, must hold both ends of every inserted entry.
	lists *stubListRepo
	anime *stubAnimeRepo
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[entryKey]domain.ListEntry)}
}

func (r *stubEntryRepo) Insert(ctx context.Context, e *domain.ListEntry) error {
	if r.lists != nil {
		if ok, _ := r.lists.Exists(ctx, e.ListID); !ok {
			return fmt.Errorf("%w: list %d does not exist", domain.ErrReferenceViolation, e.ListID)
		}
	}
	if r.anime != nil {
		if ok, _ := r.anime.Exists(ctx, e.AnimeID); !ok {
			return fmt.Errorf("%w: anime %d does not exist", domain.ErrReferenceViolation, e.AnimeID)
		}
	}
	k := entryKey{e.ListID, e.AnimeID}
	if _, ok := r.entries[k]; ok {
		return domain.ErrDuplicate
	}
	r.entries[k] = *e
	return nil
}

func (r *stubEntryRepo) FindByList(_ context.Context, listID int64) ([]domain.ListEntryView, error) {
	var out []domain.ListEntryView
	for k, e := range r.entries {
		if k.list == listID {
			out = append(out, domain.ListEntryView{ListID: e.ListID, AnimeID: e.AnimeID, Status: e.Status})
		}
	}
	return out, nil
}

func (r *stubEntryRepo) Exists(_ context.Context, listID, animeID int64) (bool, error) {
	_, ok := r.entries[entryKey{listID, animeID}]
	return ok, nil
}

func (r *stubEntryRepo) UpdateStatus(_ context.Context, e *domain.ListEntry) error {
	k := entryKey{e.ListID, e.AnimeID}
	if _, ok := r.entries[k]; !ok {
		return domain.ErrNotFound
	}
	r.entries[k] = *e
	return nil
}

func (r *stubEntryRepo) Delete(_ context.Context, listID, animeID int64) error {
	k := entryKey{listID, animeID}
	if _, ok := r.entries[k]; !ok {
		return domain.ErrNotFound
	}
	delete(r.entries, k)
	return nil
}

// ── security ──────────────────────────────────────────────────────────────────

type stubRehashQueue struct {
	jobs []ports.RehashJob
}

func (q *stubRehashQueue) Enqueue(job ports.RehashJob) { q.jobs = append(q.jobs, job) }

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	c, err := crypto.NewCipher(crypto.DefaultKey, crypto.DefaultIV)
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return c
}

func testCodec(t *testing.T) *token.Codec {
	t.Helper()
	c, err := token.NewCodec("secret", 0)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func bcryptHasher(t *testing.T) ports.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(crypto.SchemeBcrypt, 4, testCipher(t))
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return h
}

func legacyHasher(t *testing.T) ports.PasswordHasher {
	t.Helper()
	h, err := crypto.NewPasswordHasher(crypto.SchemeLegacyAES, 0, testCipher(t))
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return h
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }
