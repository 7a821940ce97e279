package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/noteplus/internal/application/auth"
	"github.com/baechuer/noteplus/internal/application/note"
	"github.com/baechuer/noteplus/internal/domain"
	"github.com/baechuer/noteplus/internal/infrastructure/memory"
	"github.com/baechuer/noteplus/internal/infrastructure/security"
	"github.com/baechuer/noteplus/internal/transport/http/middleware"
	"github.com/baechuer/noteplus/internal/transport/http/response"
)

const testSecret = "handler-test-secret"

// testAPI mounts the handlers on a chi router over the in-memory store,
// with the same routes the production router exposes.
type testAPI struct {
	t      *testing.T
	router http.Handler
}

func newTestAPI(t *testing.T, openUpdate bool) *testAPI {
	t.Helper()
	return newTestAPIWithRepos(t, openUpdate, memory.NewUserRepo(), memory.NewNoteRepo())
}

func newTestAPIWithRepos(t *testing.T, openUpdate bool, users auth.UserRepo, notes note.NoteRepo) *testAPI {
	t.Helper()

	pub := memory.NewNoopPublisher()
	signer := security.NewJWTSigner(testSecret, "")

	authSvc := auth.NewService(users, memory.NewSequence(), security.NewBcryptHasher(4), signer, pub, auth.Config{})
	noteSvc := note.NewService(notes, nil, pub, note.Config{OpenUpdate: openUpdate})

	ah := NewAuthHandler(authSvc)
	nh := NewNoteHandler(noteSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Post("/api/register", ah.Register)
	r.Post("/api/login", ah.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(signer, response.WriteError))
		r.Get("/api/user-info", ah.UserInfo)
		r.Post("/api/notes", nh.Create)
		r.Get("/api/notes", nh.List)
		r.Delete("/api/notes/{id}", nh.Delete)
		if !openUpdate {
			r.Put("/api/notes/{id}", nh.Update)
		}
	})
	if openUpdate {
		r.With(middleware.Optional(signer, response.WriteError)).Put("/api/notes/{id}", nh.Update)
	}

	return &testAPI{t: t, router: r}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var rd io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// registerAndLogin returns a token for a freshly registered user.
func (a *testAPI) registerAndLogin(name, email, password string) string {
	a.t.Helper()

	rr := a.do(http.MethodPost, "/api/register", "", map[string]string{"name": name, "email": email, "password": password})
	require.Equal(a.t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = a.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	mustReadJSON(a.t, rr.Body, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()
	raw, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body=%s", string(raw))
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	return body.Error.Code
}

// downStore fails every call the way the store adapters do when the
// database is unreachable.
type downStore struct{}

func (downStore) err() error { return domain.ErrDBUnavailable(errors.New("connection refused")) }

func (d downStore) Create(context.Context, domain.User) (domain.User, error) {
	return domain.User{}, d.err()
}

func (d downStore) GetByEmail(context.Context, string) (domain.User, error) {
	return domain.User{}, d.err()
}

type downNotes struct{ downStore }

func (d downNotes) Create(context.Context, domain.Note) (domain.Note, error) {
	return domain.Note{}, d.err()
}

func (d downNotes) GetByID(context.Context, string) (domain.Note, error) {
	return domain.Note{}, d.err()
}

func (d downNotes) ListByOwner(context.Context, string) ([]domain.Note, error) {
	return nil, d.err()
}

func (d downNotes) Update(context.Context, domain.Note) error { return d.err() }

func (d downNotes) Delete(context.Context, string) error { return d.err() }

var (
	_ auth.UserRepo = downStore{}
	_ note.NoteRepo = downNotes{}
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

var _ Pinger = fakePinger{}
