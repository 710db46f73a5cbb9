package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkmeet/sparkmeet-backend/internal/httputil"
)

type fakeStore struct {
	accounts map[string]*Account

	updateErr error
}

func newFakeStore(accounts ...*Account) *fakeStore {
	f := &fakeStore{accounts: map[string]*Account{}}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	result := *a
	return &result, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, id string, fields map[string]any) (*Account, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if about, ok := fields["about"].(string); ok {
		a.About = about
	}
	if occupation, ok := fields["occupation"].(string); ok {
		a.Occupation = occupation
	}
	result := *a
	return &result, nil
}

func testAccount() *Account {
	birthDate := time.Date(1995, time.December, 10, 0, 0, 0, 0, time.UTC)
	return &Account{
		ID:             "a1b2c3d4e5f60718",
		Email:          "ada@example.com",
		PasswordHash:   "$2a$10$digest",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		BirthDate:      &birthDate,
		About:          "mathematician",
		Gender:         "female",
		GenderInterest: "male",
		Hobbies:        []string{"chess"},
		RefreshToken:   "stored-refresh-token",
	}
}

func newProfileRouter(store Store) *chi.Mux {
	handler := NewHandler(store)
	r := chi.NewRouter()
	r.Get("/auth/fetchProfile/{userId}", handler.FetchProfile)
	r.Get("/auth/getUserById/{userId}", handler.GetUserByID)
	r.Post("/auth/updateAbout", handler.UpdateAbout)
	r.Put("/auth/users/{id}", handler.UpdateProfile)
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestFetchProfile(t *testing.T) {
	t.Parallel()

	router := newProfileRouter(newFakeStore(testAccount()))

	req := httptest.NewRequest(http.MethodGet, "/auth/fetchProfile/a1b2c3d4e5f60718", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ada@example.com", body["email"])
	assert.Equal(t, "mathematician", body["about"])

	// Secret material never serializes.
	assert.NotContains(t, body, "passwordHash")
	assert.NotContains(t, body, "refreshToken")
	assert.NotContains(t, rec.Body.String(), "stored-refresh-token")
}

func TestFetchProfile_NotFound(t *testing.T) {
	t.Parallel()

	router := newProfileRouter(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/auth/fetchProfile/missing0deadbeef", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, httputil.CodeUserNotFound, decodeBody(t, rec)["code"])
}

func TestGetUserByID_PublicProjection(t *testing.T) {
	t.Parallel()

	router := newProfileRouter(newFakeStore(testAccount()))

	req := httptest.NewRequest(http.MethodGet, "/auth/getUserById/a1b2c3d4e5f60718", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Ada", body["firstName"])
	assert.NotContains(t, body, "gender")
	assert.NotContains(t, body, "genderInterest")
}

func TestUpdateAbout(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testAccount())
	router := newProfileRouter(store)

	payload, _ := json.Marshal(map[string]string{
		"userId":       "a1b2c3d4e5f60718",
		"aboutContent": "new about text",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/updateAbout", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new about text", decodeBody(t, rec)["about"])
	assert.Equal(t, "new about text", store.accounts["a1b2c3d4e5f60718"].About)
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testAccount())
	router := newProfileRouter(store)

	payload, _ := json.Marshal(map[string]any{"occupation": "engineer"})
	req := httptest.NewRequest(http.MethodPut, "/auth/users/a1b2c3d4e5f60718", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "engineer", body["occupation"])
	// Untouched fields survive a partial update.
	assert.Equal(t, "mathematician", body["about"])
}

func TestUpdateProfile_InvalidBody(t *testing.T) {
	t.Parallel()

	router := newProfileRouter(newFakeStore(testAccount()))

	req := httptest.NewRequest(http.MethodPut, "/auth/users/a1b2c3d4e5f60718", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, httputil.CodeInvalidRequestBody, decodeBody(t, rec)["code"])
}

func TestUpdateProfile_StoreUnavailable(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testAccount())
	store.updateErr = errors.Join(ErrStoreUnavailable, errors.New("connection refused"))
	router := newProfileRouter(store)

	payload, _ := json.Marshal(map[string]any{"occupation": "engineer"})
	req := httptest.NewRequest(http.MethodPut, "/auth/users/a1b2c3d4e5f60718", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, httputil.CodeStoreUnavailable, decodeBody(t, rec)["code"])
}
