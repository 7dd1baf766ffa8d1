package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/animelist/watchlist-api/internal/core/domain"
	"github.com/animelist/watchlist-api/internal/core/ports"
)

// --- pipelines ---

// stubPipeline records the input it was bound with and replays fixed results.
type stubPipeline[D any] struct {
	bound    *D
	validate domain.Result
	save     domain.Result
	saved    bool
}

func (p *stubPipeline[D]) Bind(in D) domain.Result {
	p.bound = &in
	return domain.Result{}
}

func (p *stubPipeline[D]) Validate(context.Context) domain.Result { return p.validate }

func (p *stubPipeline[D]) Save(context.Context) domain.Result {
	p.saved = true
	return p.save
}

type stubFactory[D any] struct {
	kinds []domain.OperationKind
	last  *stubPipeline[D]
	save  domain.Result
	fail  domain.Result
}

func (f *stubFactory[D]) New(kind domain.OperationKind) ports.Pipeline[D] {
	f.kinds = append(f.kinds, kind)
	f.last = &stubPipeline[D]{validate: f.fail, save: f.save}
	return f.last
}

func (f *stubFactory[D]) input(t *testing.T) D {
	t.Helper()
	if f.last == nil || f.last.bound == nil {
		t.Fatalf("pipeline was never bound")
	}
	return *f.last.bound
}

// --- services ---

type stubAuthService struct {
	loginFn     func(ctx context.Context, email, password string) domain.Result
	authorizeFn func(ctx context.Context, id *domain.Identity, userID int64) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) domain.Result {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) AuthorizeAccount(ctx context.Context, id *domain.Identity, userID int64) error {
	if s.authorizeFn == nil {
		return nil
	}
	return s.authorizeFn(ctx, id, userID)
}

type stubCatalog struct {
	items  []domain.Anime
	err    error
	prefix string
	sheet  []byte
}

func (s *stubCatalog) List(context.Context) ([]domain.Anime, error) { return s.items, s.err }

func (s *stubCatalog) Get(_ context.Context, id int64) (*domain.Anime, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCatalog) Search(_ context.Context, prefix string) ([]domain.Anime, error) {
	s.prefix = prefix
	return s.items, s.err
}

func (s *stubCatalog) Sheet(context.Context) ([]byte, error) { return s.sheet, s.err }

type stubLists struct {
	lists  []domain.List
	views  []domain.ListEntryView
	err    error
	userID int64
	listID int64

	// foreign marks lists and owners the caller may not touch.
	foreign     map[int64]bool
	checkedList int64
}

func (s *stubLists) UserLists(_ context.Context, userID int64) ([]domain.List, error) {
	s.userID = userID
	return s.lists, s.err
}

func (s *stubLists) Entries(_ context.Context, listID int64) ([]domain.ListEntryView, error) {
	s.listID = listID
	return s.views, s.err
}

func (s *stubLists) AuthorizeOwner(_ context.Context, id *domain.Identity, userID int64) error {
	if !id.IsAdmin() && s.foreign[userID] {
		return domain.ErrForbidden
	}
	return nil
}

func (s *stubLists) AuthorizeList(_ context.Context, id *domain.Identity, listID int64) error {
	s.checkedList = listID
	if !id.IsAdmin() && s.foreign[listID] {
		return domain.ErrForbidden
	}
	return nil
}

// --- helpers ---

func newContext(method, target string, body io.Reader, id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if id != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError with %d, got %v", code, err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d (%v)", code, he.Code, he.Message)
	}
}

var (
	userIdentity  = &domain.Identity{Email: "a@b.c", Role: domain.RoleUser}
	adminIdentity = &domain.Identity{Email: "root@b.c", Role: domain.RoleAdmin}
)
