package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasknest/tasknest/internal/apperr"
	"github.com/tasknest/tasknest/internal/audit"
	"github.com/tasknest/tasknest/internal/auth"
	"github.com/tasknest/tasknest/internal/handler/dto"
	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/middleware"
	"github.com/tasknest/tasknest/internal/model"
	"github.com/tasknest/tasknest/internal/service"
)

// ---- stub services ----

type stubAuth struct {
	token string
	err   error
}

func (s *stubAuth) Signup(context.Context, service.SignupInput) (string, error) { return s.token, s.err }
func (s *stubAuth) Signin(context.Context, service.SigninInput) (string, error) { return s.token, s.err }

type stubUsers struct {
	user        *model.User
	err         error
	roleChanges []string
	pwUser      int64
}

func (s *stubUsers) GetUser(context.Context, int64) (*model.User, error) { return s.user, s.err }

func (s *stubUsers) ChangePassword(_ context.Context, userID int64, _ service.ChangePasswordInput) error {
	s.pwUser = userID
	return s.err
}

func (s *stubUsers) ChangeUserRole(_ context.Context, _ int64, role string) error {
	if s.err != nil {
		return s.err
	}
	s.roleChanges = append(s.roleChanges, role)
	return nil
}

type stubTodos struct {
	todo       *model.Todo
	page       *model.Page[*model.Todo]
	err        error
	pageArgs   [2]int
	savedOwner model.AuthUser
}

func (s *stubTodos) SaveTodo(_ context.Context, authUser model.AuthUser, input service.SaveTodoInput) (*model.Todo, error) {
	s.savedOwner = authUser
	if s.err != nil {
		return nil, s.err
	}
	return &model.Todo{ID: 1, Title: input.Title, Contents: input.Contents, Weather: "Sunny", Owner: model.UserFromAuth(authUser)}, nil
}

func (s *stubTodos) GetTodos(_ context.Context, page, size int) (*model.Page[*model.Todo], error) {
	s.pageArgs = [2]int{page, size}
	return s.page, s.err
}

func (s *stubTodos) GetTodo(context.Context, int64) (*model.Todo, error) { return s.todo, s.err }

type stubManagers struct {
	err     error
	deleted []int64
}

func (s *stubManagers) GetManagers(context.Context, int64) ([]*model.Manager, error) {
	return []*model.Manager{{ID: 3, User: &model.User{ID: 2, Email: "m@example.com"}}}, s.err
}

func (s *stubManagers) SaveManager(_ context.Context, _ model.AuthUser, todoID, candidate int64) (*model.Manager, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Manager{ID: 9, User: &model.User{ID: candidate, Email: "c@example.com"}, Todo: &model.Todo{ID: todoID}}, nil
}

func (s *stubManagers) DeleteManager(_ context.Context, _, _, managerID int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, managerID)
	return nil
}

type stubComments struct {
	err     error
	deleted []int64
}

func (s *stubComments) SaveComment(_ context.Context, authUser model.AuthUser, _ int64, contents string) (*model.Comment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.Comment{ID: 5, Contents: contents, User: model.UserFromAuth(authUser)}, nil
}

func (s *stubComments) GetComments(context.Context, int64) ([]*model.Comment, error) { return nil, s.err }

func (s *stubComments) DeleteComment(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (p *recordingPublisher) PublishAsync(entry audit.Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingPublisher) all() []audit.Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]audit.Entry(nil), p.entries...)
}

// ---- fixture ----

type fixture struct {
	router    http.Handler
	tokens    *auth.TokenIssuer
	users     *stubUsers
	todos     *stubTodos
	managers  *stubManagers
	comments  *stubComments
	published *recordingPublisher
	recorder  *metrics.InMemoryRecorder
	auditLog  *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := discardLogger()
	f := &fixture{
		tokens:    auth.NewTokenIssuer("router-test-secret", time.Hour),
		users:     &stubUsers{user: &model.User{ID: 2, Email: "two@example.com"}},
		todos:     &stubTodos{},
		managers:  &stubManagers{},
		comments:  &stubComments{},
		published: &recordingPublisher{},
		recorder:  metrics.NewInMemory(),
		auditLog:  &bytes.Buffer{},
	}

	errs := NewErrorWriter(logger)
	auditLogger := audit.NewLogger(newJSONLogger(f.auditLog), f.published, f.recorder)

	f.router = NewRouter(RouterConfig{
		Logger:        logger,
		IsDevelopment: true,
		CORS:          middleware.DefaultCORSConfig(),
		Authenticate:  middleware.JWTAuth(middleware.AuthConfig{Logger: logger, Tokens: f.tokens}),
		RequireAdmin:  middleware.RequireAdmin(logger),
		Audit:         auditLogger,
		Errors:        errs,
		Handlers: Handlers{
			Health:   NewHealthHandler(logger),
			Auth:     NewAuthHandler(&stubAuth{token: "Bearer issued"}, errs, logger),
			Users:    NewUserHandler(f.users, errs, logger),
			Todos:    NewTodoHandler(f.todos, errs, logger),
			Managers: NewManagerHandler(f.managers, errs, logger),
			Comments: NewCommentHandler(f.comments, errs, logger),
			Metrics:  NewMetricsHandler(f.recorder),
		},
	})
	return f
}

func (f *fixture) token(t *testing.T, id int64, role model.UserRole) string {
	t.Helper()
	tok, err := f.tokens.Issue(&model.User{ID: id, Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) apperr.Response {
	t.Helper()
	var body apperr.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

// ---- tests ----

func TestRouter_PublicRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/signin", "", `{"email":"a@example.com","password":"Passw0rd"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var tok dto.TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tok))
	assert.Equal(t, "Bearer issued", tok.BearerToken)
}

func TestRouter_UserRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/todos", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "JWT token is required", errorBody(t, rec).Message)
}

func TestRouter_TodoPaging(t *testing.T) {
	f := newFixture(t)
	f.todos.page = &model.Page[*model.Todo]{Number: 2, Size: 5, TotalElements: 11}
	tok := f.token(t, 1, model.RoleUser)

	rec := f.do(t, http.MethodGet, "/todos?page=2&size=5", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int{2, 5}, f.todos.pageArgs)

	var page dto.TodoPageResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Equal(t, 3, page.TotalPages)
	assert.NotNil(t, page.Content)

	rec = f.do(t, http.MethodGet, "/todos?page=abc", tok, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_TodoCreateUsesRequester(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, 4, model.RoleUser)

	rec := f.do(t, http.MethodPost, "/todos", tok, `{"title":"t","contents":"c"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(4), f.todos.savedOwner.ID)

	var resp dto.TodoSaveResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Sunny", resp.Weather)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(4), resp.User.ID)
}

func TestRouter_ManagerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid request", apperr.InvalidRequest(service.MsgInvalidCreator), http.StatusBadRequest, service.MsgInvalidCreator},
		{"todo not found stays 400", apperr.InvalidRequest(service.MsgTodoNotFound), http.StatusBadRequest, service.MsgTodoNotFound},
		{"server", apperr.Server("database error", errors.New("conn reset")), http.StatusInternalServerError, "database error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.managers.err = tt.err

			rec := f.do(t, http.MethodPost, "/todos/1/managers", f.token(t, 1, model.RoleUser), `{"managerUserId":2}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := errorBody(t, rec)
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestRouter_ManagerSaveAndDelete(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, 1, model.RoleUser)

	rec := f.do(t, http.MethodPost, "/todos/7/managers", tok, `{"managerUserId":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved dto.ManagerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.Equal(t, int64(9), saved.ID)
	assert.Equal(t, int64(2), saved.User.ID)

	rec = f.do(t, http.MethodDelete, "/todos/7/managers/9", tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{9}, f.managers.deleted)

	rec = f.do(t, http.MethodPost, "/todos/7/managers", tok, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdminGate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/admin/comments/3", f.token(t, 2, model.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := errorBody(t, rec)
	assert.Equal(t, apperr.Response{Code: 403, Status: "FORBIDDEN", Message: "admin permission required"}, body)

	assert.Empty(t, f.comments.deleted, "handler must not run")
	assert.Empty(t, f.published.all(), "no audit entry for rejected calls")
	assert.Zero(t, f.auditLog.Len())
}

func TestRouter_AdminCommentDeleteIsAudited(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/admin/comments/3", f.token(t, 1, model.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3}, f.comments.deleted)

	entries := f.published.all()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].UserID)
	assert.Equal(t, "/admin/comments/3", entries[0].URI)
	assert.JSONEq(t, `{"commentId":3}`, string(entries[0].PathVariables))
	assert.JSONEq(t, `{}`, string(entries[0].RequestBody))
	assert.Equal(t, metrics.StatusSuccess, entries[0].Status)

	lines := logMessages(t, f.auditLog)
	assert.Equal(t, []string{"[Request]", "[RequestBody]", "[PathVariable]", "[ResponseBody]"}, lines)
}

func TestRouter_AuditURIOmitsQuery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/admin/comments/3?reason=spam&token=abc", f.token(t, 1, model.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries := f.published.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "/admin/comments/3", entries[0].URI)
}

func TestRouter_AdminRoleChange(t *testing.T) {
	f := newFixture(t)
	admin := f.token(t, 1, model.RoleAdmin)

	rec := f.do(t, http.MethodPatch, "/admin/users/2", admin, `{"role":"ADMIN"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ADMIN"}, f.users.roleChanges)

	entries := f.published.all()
	require.Len(t, entries, 1)
	assert.JSONEq(t, `{"userId":2}`, string(entries[0].PathVariables))
	assert.JSONEq(t, `{"userRoleChangeRequest":{"role":"ADMIN"}}`, string(entries[0].RequestBody))
}

func TestRouter_AdminFailureIsAuditedWithoutResponse(t *testing.T) {
	f := newFixture(t)
	f.users.err = apperr.InvalidRequest(service.MsgUserNotFound)

	rec := f.do(t, http.MethodPatch, "/admin/users/99", f.token(t, 1, model.RoleAdmin), `{"role":"USER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.MsgUserNotFound, errorBody(t, rec).Message)

	entries := f.published.all()
	require.Len(t, entries, 1)
	assert.Equal(t, metrics.StatusFailed, entries[0].Status)
	assert.NotContains(t, logMessages(t, f.auditLog), "[ResponseBody]")
}

func TestRouter_AdminBadBodyNeverAudited(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPatch, "/admin/users/2", f.token(t, 1, model.RoleAdmin), `{"role":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.published.all())
}

func TestRouter_AdminMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/metrics", f.token(t, 2, model.RoleUser), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/admin/metrics", f.token(t, 1, model.RoleAdmin), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasknest_todos_created_total 0")
	assert.Empty(t, f.published.all(), "metrics reads are not audited")
}

func TestRouter_NotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegistrar_PanicsOnMisconfiguredRoutes(t *testing.T) {
	g := NewRegistrar(RegistrarConfig{Logger: discardLogger()})

	assert.Panics(t, func() {
		g.Register(chiRouter(), Route{Method: http.MethodDelete, Pattern: "/admin/x", Capability: CapabilityAdmin})
	})
	assert.Panics(t, func() {
		g.Register(chiRouter(), Route{Method: http.MethodGet, Pattern: "/x", Capability: CapabilityUser})
	})
}
