package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// recordingService counts every call so tests can assert that denied
// requests never reach the orchestration layer.
type recordingService struct {
	calls int
	user  domain.User
}

func (s *recordingService) touch() *domain.User {
	s.calls++
	u := s.user
	return &u
}

func (s *recordingService) SignUp(context.Context, ports.SignUpInput) (*domain.User, error) {
	return s.touch(), nil
}

func (s *recordingService) Confirm(context.Context, string) (*domain.User, error) {
	u := s.touch()
	u.Confirmed = true
	return u, nil
}

func (s *recordingService) SignIn(context.Context, string, string) (string, *domain.User, error) {
	return "tkn", s.touch(), nil
}

func (s *recordingService) FindByEmail(context.Context, string) (*domain.User, error) {
	return s.touch(), nil
}

func (s *recordingService) FindByID(context.Context, int64) (*domain.User, error) {
	return s.touch(), nil
}

func (s *recordingService) FindAll(context.Context) ([]domain.User, error) {
	s.calls++
	return []domain.User{s.user}, nil
}

func (s *recordingService) Update(context.Context, int64, ports.UpdateUserInput) (*domain.User, error) {
	return s.touch(), nil
}

func (s *recordingService) UpdateRole(_ context.Context, _ int64, role domain.Role) (*domain.User, error) {
	u := s.touch()
	u.Role = role
	return u, nil
}

func (s *recordingService) Delete(context.Context, int64) error {
	s.calls++
	return nil
}

// The router registers prometheus collectors with the default registry, so
// it is built once and shared; each test resets the call counter.
var (
	routerOnce   sync.Once
	sharedSvc    *recordingService
	sharedIssuer *auth.Issuer
	sharedRouter http.Handler
)

func newTestRouter(t *testing.T) (*recordingService, *auth.Issuer, http.Handler) {
	t.Helper()
	routerOnce.Do(func() {
		sharedSvc = &recordingService{user: domain.User{
			ID:           1,
			Name:         "Alice",
			Surname:      "Smith",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$secret",
			Role:         domain.RoleUser,
		}}
		sharedIssuer = auth.NewIssuer("secret", time.Hour)
		sharedRouter = NewRouter(sharedSvc, sharedIssuer, nil, nil, zerolog.Nop())
	})
	sharedSvc.calls = 0
	return sharedSvc, sharedIssuer, sharedRouter
}

func bearerFor(t *testing.T, issuer *auth.Issuer, id int64, role domain.Role) string {
	t.Helper()
	token, err := issuer.Issue(&domain.User{ID: id, Email: "x@example.com", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + token
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSignUp_ResponseNeverCarriesPassword(t *testing.T) {
	_, _, h := newTestRouter(t)

	rec := do(h, http.MethodPost, "/users/signup", "",
		`{"name":"Alice","surname":"Smith","email":"alice@example.com","password":"Abcd1234"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"password", "password_hash", "passwordHash"} {
		if _, ok := body[key]; ok {
			t.Fatalf("response leaks %q: %s", key, rec.Body.String())
		}
	}
}

func TestSignUp_InvalidPayloadRejected(t *testing.T) {
	svc, _, h := newTestRouter(t)

	rec := do(h, http.MethodPost, "/users/signup", "",
		`{"name":"Al","surname":"Smith","email":"alice@example.com","password":"abcd"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite validation failure")
	}
	if !strings.Contains(rec.Body.String(), "violations") {
		t.Fatalf("expected field violations in body: %s", rec.Body.String())
	}
}

func TestProtectedRoute_DeniedBeforeService(t *testing.T) {
	svc, _, h := newTestRouter(t)

	rec := do(h, http.MethodGet, "/users/findbyemail?email=a@b.com", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite missing token")
	}
}

func TestFindByEmail_RolePolicy(t *testing.T) {
	svc, issuer, h := newTestRouter(t)

	rec := do(h, http.MethodGet, "/users/findbyemail?email=a@b.com",
		bearerFor(t, issuer, 9, domain.RoleUser), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user role: status = %d, want 403", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite insufficient role")
	}

	rec = do(h, http.MethodGet, "/users/findbyemail?email=a@b.com",
		bearerFor(t, issuer, 9, domain.RoleAdmin), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin role: status = %d, want 200", rec.Code)
	}
}

func TestFindAll_RequiresAuthentication(t *testing.T) {
	// The observed upstream surface left list reads public; that looked like
	// an information-disclosure oversight, so reads require a valid token.
	_, issuer, h := newTestRouter(t)

	if rec := do(h, http.MethodGet, "/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}

	rec := do(h, http.MethodGet, "/users", bearerFor(t, issuer, 9, domain.RoleUser), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated: status = %d, want 200", rec.Code)
	}
}

func TestFindByID_RequiresAuthentication(t *testing.T) {
	_, issuer, h := newTestRouter(t)

	if rec := do(h, http.MethodGet, "/users/1", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", rec.Code)
	}

	rec := do(h, http.MethodGet, "/users/1", bearerFor(t, issuer, 9, domain.RoleUser), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated: status = %d, want 200", rec.Code)
	}
}

func TestUpdate_OwnOrRolePolicy(t *testing.T) {
	svc, issuer, h := newTestRouter(t)

	// Owner updates own profile.
	rec := do(h, http.MethodPut, "/users/5", bearerFor(t, issuer, 5, domain.RoleUser),
		`{"name":"Alicia"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Plain user touching someone else's profile.
	svc.calls = 0
	rec = do(h, http.MethodPut, "/users/7", bearerFor(t, issuer, 5, domain.RoleUser),
		`{"name":"Alicia"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner: status = %d, want 403", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite ownership denial")
	}

	// Admin bypasses ownership.
	rec = do(h, http.MethodPut, "/users/7", bearerFor(t, issuer, 5, domain.RoleAdmin),
		`{"name":"Alicia"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}
}

func TestDelete_StaffOnly(t *testing.T) {
	svc, issuer, h := newTestRouter(t)

	rec := do(h, http.MethodDelete, "/users/7", bearerFor(t, issuer, 7, domain.RoleUser), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user deleting self: status = %d, want 403", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite denial")
	}

	rec = do(h, http.MethodDelete, "/users/7", bearerFor(t, issuer, 1, domain.RoleSuper), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("super: status = %d, want 200", rec.Code)
	}
}

func TestUpdateRole_SuperOnly(t *testing.T) {
	svc, issuer, h := newTestRouter(t)

	rec := do(h, http.MethodPut, "/users/7/role", bearerFor(t, issuer, 1, domain.RoleAdmin),
		`{"role":"admin"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin: status = %d, want 403", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service reached despite insufficient role")
	}

	rec = do(h, http.MethodPut, "/users/7/role", bearerFor(t, issuer, 1, domain.RoleSuper),
		`{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("super: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Unknown role values are rejected before the repository sees them.
	rec = do(h, http.MethodPut, "/users/7/role", bearerFor(t, issuer, 1, domain.RoleSuper),
		`{"role":"owner"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad role: status = %d, want 400", rec.Code)
	}
}

func TestConfirm_Public(t *testing.T) {
	_, _, h := newTestRouter(t)

	rec := do(h, http.MethodGet, "/users/confirm/some-code", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestExpiredToken_Unauthorized(t *testing.T) {
	_, _, h := newTestRouter(t)

	expired, err := auth.NewIssuer("secret", -time.Minute).Issue(&domain.User{ID: 1, Role: domain.RoleSuper})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := do(h, http.MethodGet, "/users", "Bearer "+expired, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token expired") {
		t.Fatalf("expected expiry message, got %s", rec.Body.String())
	}
}
