package profile

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	domprofile "devconnect/internal/domain/profile"
	"devconnect/internal/domain/user"
	"devconnect/internal/infrastructure/github"
	"devconnect/internal/pkg/validation"
)

type fakeProfileRepo struct {
	byUser map[uuid.UUID]domprofile.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[uuid.UUID]domprofile.Profile{}}
}

func (r *fakeProfileRepo) GetByUserID(_ context.Context, userID uuid.UUID) (domprofile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return domprofile.Profile{}, domprofile.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) List(_ context.Context) ([]domprofile.Profile, error) {
	out := make([]domprofile.Profile, 0, len(r.byUser))
	for _, p := range r.byUser {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, p domprofile.Profile) error {
	r.byUser[p.User.ID] = p
	return nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[uuid.UUID]user.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeGithubClient struct {
	repos map[string][]string
	err   error
}

func (c *fakeGithubClient) ListRepos(_ context.Context, username string) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	repos, ok := c.repos[username]
	if !ok {
		return nil, github.ErrProfileNotFound
	}
	return repos, nil
}

func newTestService() (*Service, *fakeProfileRepo, *fakeUserRepo, *fakeGithubClient) {
	profiles := newFakeProfileRepo()
	users := newFakeUserRepo()
	gh := &fakeGithubClient{repos: map[string][]string{}}
	return NewService(profiles, users, gh, nil, nil), profiles, users, gh
}

func TestUpsertSplitsSkills(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()

	p, err := svc.Upsert(context.Background(), userID, UpsertInput{
		Status: "developer",
		Skills: "a, b ,c",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(p.Skills, want) {
		t.Fatalf("skills mismatch: got %v want %v", p.Skills, want)
	}
}

func TestUpsertValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Upsert(context.Background(), uuid.New(), UpsertInput{})

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fieldErrs) != 2 {
		t.Fatalf("expected status and skills errors, got %+v", fieldErrs)
	}
}

func TestUpsertKeepsAbsentFields(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()

	if _, err := svc.Upsert(context.Background(), userID, UpsertInput{
		Status:  "developer",
		Skills:  "go",
		Company: "acme",
		Bio:     "hello",
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	p, err := svc.Upsert(context.Background(), userID, UpsertInput{
		Status: "manager",
		Skills: "go,sql",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if p.Company != "acme" || p.Bio != "hello" {
		t.Fatalf("absent fields were cleared: %+v", p)
	}
	if p.Status != "manager" {
		t.Fatalf("status not updated: %q", p.Status)
	}
}

func TestGetByUserIDNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	if _, err := svc.GetByUserID(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExperienceLifecycle(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()

	if _, err := svc.Upsert(context.Background(), userID, UpsertInput{Status: "dev", Skills: "go"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	p, err := svc.AddExperience(context.Background(), userID, ExperienceInput{
		Title: "First", Company: "acme", From: "2019-01-01",
	})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	first := p.Experience[0].ID

	p, err = svc.AddExperience(context.Background(), userID, ExperienceInput{
		Title: "Second", Company: "acme", From: "2021-01-01",
	})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if len(p.Experience) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Experience))
	}
	if p.Experience[0].Title != "Second" {
		t.Fatalf("entries not newest-first: %+v", p.Experience)
	}

	p, err = svc.RemoveExperience(context.Background(), userID, first)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(p.Experience) != 1 || p.Experience[0].Title != "Second" {
		t.Fatalf("wrong entry removed: %+v", p.Experience)
	}
}

func TestRemoveExperienceUnknownID(t *testing.T) {
	svc, _, _, _ := newTestService()
	userID := uuid.New()

	if _, err := svc.Upsert(context.Background(), userID, UpsertInput{Status: "dev", Skills: "go"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := svc.AddExperience(context.Background(), userID, ExperienceInput{
		Title: "Only", Company: "acme", From: "2019-01-01",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := svc.RemoveExperience(context.Background(), userID, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	p, err := svc.GetByUserID(context.Background(), userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Experience) != 1 {
		t.Fatalf("list changed on failed removal: %+v", p.Experience)
	}
}

func TestEducationValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddEducation(context.Background(), uuid.New(), EducationInput{})

	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fieldErrs) != 3 {
		t.Fatalf("expected school, degree, from errors, got %+v", fieldErrs)
	}
}

func TestAddEntryWithoutProfile(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AddExperience(context.Background(), uuid.New(), ExperienceInput{
		Title: "T", Company: "C", From: "2020-01-01",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc, _, users, _ := newTestService()

	u := user.User{ID: uuid.New(), Name: "Alice", Email: "a@example.com"}
	_ = users.Create(context.Background(), u)

	if err := svc.DeleteAccount(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteAccount(context.Background(), u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGithubRepos(t *testing.T) {
	svc, _, _, gh := newTestService()
	gh.repos["octocat"] = []string{"hello-world", "spoon-knife"}

	repos, err := svc.GithubRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("GithubRepos: %v", err)
	}
	if !reflect.DeepEqual(repos, []string{"hello-world", "spoon-knife"}) {
		t.Fatalf("unexpected repos: %v", repos)
	}

	if _, err := svc.GithubRepos(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
