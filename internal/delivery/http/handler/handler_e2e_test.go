package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnect/internal/delivery/http/handler"
	"devconnect/internal/delivery/http/middleware"
	dompost "devconnect/internal/domain/post"
	domprofile "devconnect/internal/domain/profile"
	"devconnect/internal/domain/user"
	"devconnect/internal/infrastructure/github"
	"devconnect/internal/pkg/jwt"
	ucauth "devconnect/internal/usecase/auth"
	ucpost "devconnect/internal/usecase/post"
	ucprofile "devconnect/internal/usecase/profile"
)

type memUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[uuid.UUID]user.User{}, byEmail: map[string]uuid.UUID{}}
}

func (r *memUserRepo) Create(_ context.Context, u user.User) error {
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}

type memProfileRepo struct {
	byUser map[uuid.UUID]domprofile.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{byUser: map[uuid.UUID]domprofile.Profile{}}
}

func (r *memProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (domprofile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return domprofile.Profile{}, domprofile.ErrNotFound
	}
	return p, nil
}

func (r *memProfileRepo) List(_ context.Context) ([]domprofile.Profile, error) {
	out := make([]domprofile.Profile, 0, len(r.byUser))
	for _, p := range r.byUser {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProfileRepo) Save(_ context.Context, p domprofile.Profile) error {
	r.byUser[p.User.ID] = p
	return nil
}

type stubGithubClient struct {
	repos map[string][]string
}

func (c *stubGithubClient) ListRepos(_ context.Context, username string) ([]string, error) {
	repos, ok := c.repos[username]
	if !ok {
		return nil, github.ErrProfileNotFound
	}
	return repos, nil
}

type memPostRepo struct {
	byID  map[uuid.UUID]dompost.Post
	order []uuid.UUID
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{byID: map[uuid.UUID]dompost.Post{}}
}

func (r *memPostRepo) Create(_ context.Context, p dompost.Post) error {
	r.byID[p.ID] = p
	r.order = append([]uuid.UUID{p.ID}, r.order...)
	return nil
}

func (r *memPostRepo) List(_ context.Context) ([]dompost.Post, error) {
	out := make([]dompost.Post, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uuid.UUID) (dompost.Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return dompost.Post{}, dompost.ErrNotFound
	}
	return p, nil
}

func (r *memPostRepo) Update(_ context.Context, p dompost.Post) error {
	if _, ok := r.byID[p.ID]; !ok {
		return dompost.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return dompost.ErrNotFound
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// newTestApp builds the HTTP surface the way the route registry does,
// backed by in-memory repositories.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	users := newMemUserRepo()
	profiles := newMemProfileRepo()
	posts := newMemPostRepo()
	gh := &stubGithubClient{repos: map[string][]string{
		"octocat": {"hello-world", "spoon-knife"},
	}}

	jwtSvc := jwt.NewHMACService("e2e-secret", time.Hour)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	authUC := ucauth.NewService(users, jwtSvc)
	profileUC := ucprofile.NewService(profiles, users, gh, nil, nil)
	postUC := ucpost.NewService(posts, users, nil)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())

	api := app.Group("/api")
	handler.NewUserHandler(authUC).RegisterRoutes(api.Group("/users"))

	authHandler := handler.NewAuthHandler(authUC)
	authHandler.RegisterPublicRoutes(api.Group("/auth"))
	authHandler.RegisterProtectedRoutes(api.Group("/auth", authMw.Middleware()))

	profileHandler := handler.NewProfileHandler(profileUC)
	profileHandler.RegisterPublicRoutes(api.Group("/profile"))
	profileHandler.RegisterProtectedRoutes(api.Group("/profile", authMw.Middleware()))

	handler.NewPostHandler(postUC).RegisterRoutes(api.Group("/posts", authMw.Middleware()))

	return app
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func registerAndLogin(t *testing.T, app *fiber.App, name, email, password string) string {
	t.Helper()

	code, _ := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	if code != http.StatusOK {
		t.Fatalf("register: status %d", code)
	}

	code, env := doJSON(t, app, http.MethodPost, "/api/auth", "", fiber.Map{
		"email": email, "password": password,
	})
	if code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return data.Token
}

func TestRegisterLoginPostFlow(t *testing.T) {
	app := newTestApp(t)

	token := registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")

	code, _ := doJSON(t, app, http.MethodPost, "/api/posts", token, fiber.Map{"text": "hello"})
	if code != http.StatusOK {
		t.Fatalf("create post: status %d", code)
	}

	code, env := doJSON(t, app, http.MethodGet, "/api/posts", token, nil)
	if code != http.StatusOK {
		t.Fatalf("list posts: status %d", code)
	}

	var posts []struct {
		Text string `json:"text"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		t.Fatalf("list data: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected exactly one post, got %d", len(posts))
	}
	if posts[0].Text != "hello" || posts[0].Name != "Alice" {
		t.Fatalf("unexpected post: %+v", posts[0])
	}
}

func TestDuplicateRegistration(t *testing.T) {
	app := newTestApp(t)

	registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")

	code, env := doJSON(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"name": "Other", "email": "alice@example.com", "password": "secret2",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if env.Message != "user already exists" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestCurrentUserOmitsPassword(t *testing.T) {
	app := newTestApp(t)

	token := registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")

	code, env := doJSON(t, app, http.MethodGet, "/api/auth", token, nil)
	if code != http.StatusOK {
		t.Fatalf("me: status %d", code)
	}

	var data map[string]any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("me data: %v", err)
	}
	if data["name"] != "Alice" {
		t.Fatalf("unexpected user payload: %v", data)
	}
	for key := range data {
		if key == "password" || key == "password_hash" {
			t.Fatalf("credential leaked in payload: %v", data)
		}
	}
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	app := newTestApp(t)

	code, env := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", code)
	}
	if env.Message != "no token, authorization denied" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	token := registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")
	tampered := token[:len(token)-2] + "xx"

	code, env = doJSON(t, app, http.MethodGet, "/api/posts", tampered, nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", code)
	}
	if env.Message != "token is not valid" {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestPublicProfileRoutesNeedNoToken(t *testing.T) {
	app := newTestApp(t)

	token := registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")
	code, _ := doJSON(t, app, http.MethodPost, "/api/profile", token, fiber.Map{
		"status": "developer", "skills": "go,sql",
	})
	if code != http.StatusOK {
		t.Fatalf("upsert: status %d", code)
	}

	// No Authorization header on any of these.
	code, env := doJSON(t, app, http.MethodGet, "/api/profile", "", nil)
	if code != http.StatusOK {
		t.Fatalf("list profiles: expected 200, got %d (%s)", code, env.Message)
	}

	var profiles []struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &profiles); err != nil {
		t.Fatalf("list data: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Status != "developer" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}

	code, env = doJSON(t, app, http.MethodGet, "/api/profile/user/"+uuid.NewString(), "", nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d (%s)", code, env.Message)
	}

	code, env = doJSON(t, app, http.MethodGet, "/api/profile/github/octocat", "", nil)
	if code != http.StatusOK {
		t.Fatalf("github lookup: expected 200, got %d (%s)", code, env.Message)
	}

	var repos []string
	if err := json.Unmarshal(env.Data, &repos); err != nil {
		t.Fatalf("github data: %v", err)
	}
	if len(repos) != 2 || repos[0] != "hello-world" {
		t.Fatalf("unexpected repos: %v", repos)
	}
}

func TestProtectedProfileRoutesStillGuarded(t *testing.T) {
	app := newTestApp(t)

	code, env := doJSON(t, app, http.MethodGet, "/api/profile/me", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("me without token: expected 401, got %d", code)
	}
	if env.Message != "no token, authorization denied" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	code, _ = doJSON(t, app, http.MethodPost, "/api/profile", "", fiber.Map{
		"status": "developer", "skills": "go",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("upsert without token: expected 401, got %d", code)
	}
}

func TestUnknownPostIDIsNotFound(t *testing.T) {
	app := newTestApp(t)

	token := registerAndLogin(t, app, "Alice", "alice@example.com", "secret1")

	code, _ := doJSON(t, app, http.MethodGet, "/api/posts/"+uuid.NewString(), token, nil)
	if code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", code)
	}

	code, _ = doJSON(t, app, http.MethodGet, "/api/posts/not-a-uuid", token, nil)
	if code != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %d", code)
	}
}
