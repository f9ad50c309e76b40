package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/trackr/trackr/internal/service"
	"github.com/trackr/trackr/internal/supabase"
)

// fakeIdentity is a canned service.IdentityProvider.
type fakeIdentity struct {
	session   *supabase.Session
	signInErr error
	signUpErr error

	user         *supabase.User
	getUserErr   error
	verified     bool
	verifyErr    error
	updateErr    error
	deleteErr    error
	updatedAttrs map[string]any
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string) (*supabase.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.session, nil
}

func (f *fakeIdentity) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	return f.verified, f.verifyErr
}

func (f *fakeIdentity) AdminGetUser(ctx context.Context, id string) (*supabase.User, error) {
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	return f.user, nil
}

func (f *fakeIdentity) AdminUpdateUser(ctx context.Context, id string, attrs map[string]any) (*supabase.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updatedAttrs = attrs
	return f.user, nil
}

func (f *fakeIdentity) AdminDeleteUser(ctx context.Context, id string) error {
	return f.deleteErr
}

func newUserRouter(identity *fakeIdentity, store *fakeRecordStore) *chi.Mux {
	h := NewUserHandler(service.NewUserService(identity, store), discardLogger())

	r := chi.NewRouter()
	r.Post("/api/login", h.Login)
	r.Post("/api/signup", h.Signup)
	r.Put("/api/user/{id}", h.UpdateProfile)
	r.Delete("/api/user/{id}", h.DeleteUser)
	r.Put("/api/change-password/{id}", h.ChangePassword)
	return r
}

func sessionFor(uid, email string) *supabase.Session {
	return &supabase.Session{
		AccessToken: "access-token",
		TokenType:   "bearer",
		User: supabase.User{
			ID:    uid,
			Email: email,
			Metadata: map[string]any{
				"sub":        uid,
				"email":      email,
				"first_name": "Ada",
			},
		},
	}
}

func TestUserHandler_Login(t *testing.T) {
	identity := &fakeIdentity{session: sessionFor(testUID, "ada@example.com")}
	router := newUserRouter(identity, &fakeRecordStore{})

	body := `{"email":"ada@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
		Token   string         `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Message != "Login successful." {
		t.Errorf("unexpected message: %s", response.Message)
	}
	if response.Token != "access-token" {
		t.Errorf("unexpected token: %s", response.Token)
	}
	if _, ok := response.User["sub"]; ok {
		t.Error("sub leaked into public user payload")
	}
	if response.User["id"] != testUID {
		t.Errorf("expected id %s, got %v", testUID, response.User["id"])
	}
}

func TestUserHandler_Login_BadCredentials(t *testing.T) {
	identity := &fakeIdentity{signInErr: &supabase.APIError{
		Status:  http.StatusBadRequest,
		Message: "Invalid login credentials",
	}}
	router := newUserRouter(identity, &fakeRecordStore{})

	body := `{"email":"ada@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var response struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "Invalid login credentials" {
		t.Errorf("expected upstream message passed through, got %q", response.Error)
	}
}

func TestUserHandler_Login_MissingFields(t *testing.T) {
	router := newUserRouter(&fakeIdentity{}, &fakeRecordStore{})

	for _, body := range []string{`{}`, `{"email":"a@b.c"}`, `{"password":"x"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected status 400, got %d", body, rec.Code)
		}
	}
}

func TestUserHandler_Signup(t *testing.T) {
	identity := &fakeIdentity{session: sessionFor(testUID, "new@example.com")}
	router := newUserRouter(identity, &fakeRecordStore{})

	body := `{"email":"new@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Message != "Signup successful." {
		t.Errorf("unexpected message: %s", response.Message)
	}
}

func TestUserHandler_Signup_Rejected(t *testing.T) {
	identity := &fakeIdentity{signUpErr: &supabase.APIError{
		Status:  http.StatusUnprocessableEntity,
		Message: "User already registered",
	}}
	router := newUserRouter(identity, &fakeRecordStore{})

	body := `{"email":"new@example.com","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "User already registered" {
		t.Errorf("expected upstream message passed through, got %q", response.Error)
	}
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	identity := &fakeIdentity{user: &supabase.User{
		ID:    testUID,
		Email: "ada@example.com",
		Metadata: map[string]any{
			"sub":        testUID,
			"first_name": "Ada",
			"last_name":  "Lovelace",
		},
	}}
	router := newUserRouter(identity, &fakeRecordStore{})

	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/user/"+testUID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Message != "User updated successfully" {
		t.Errorf("unexpected message: %s", response.Message)
	}
	if response.User["last_name"] != "Lovelace" {
		t.Errorf("unexpected user payload: %+v", response.User)
	}
	if _, ok := identity.updatedAttrs["user_metadata"]; !ok {
		t.Error("expected wholesale user_metadata overwrite")
	}
}

func TestUserHandler_UpdateProfile_InvalidID(t *testing.T) {
	router := newUserRouter(&fakeIdentity{}, &fakeRecordStore{})

	body := `{"email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/api/user/not-a-uuid", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestUserHandler_DeleteUser(t *testing.T) {
	store := seedStore()
	router := newUserRouter(&fakeIdentity{}, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/user/"+testUID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Message != "User deleted successfully" {
		t.Errorf("unexpected message: %s", response.Message)
	}
	if len(store.rows) != 0 {
		t.Errorf("expected cascade delete of application records, %d remain", len(store.rows))
	}
}

func TestUserHandler_ChangePassword(t *testing.T) {
	account := &supabase.User{ID: testUID, Email: "ada@example.com"}

	tests := []struct {
		name       string
		identity   *fakeIdentity
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "success",
			identity:   &fakeIdentity{user: account, verified: true},
			body:       `{"current_password":"old","new_password":"new"}`,
			wantStatus: http.StatusOK,
			wantMsg:    "Password updated successfully",
		},
		{
			name: "unknown user",
			identity: &fakeIdentity{getUserErr: &supabase.APIError{
				Status:  http.StatusNotFound,
				Message: "User not found",
			}},
			body:       `{"current_password":"old","new_password":"new"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrong current password",
			identity:   &fakeIdentity{user: account, verified: false},
			body:       `{"current_password":"bad","new_password":"new"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "same password",
			identity:   &fakeIdentity{user: account, verified: true},
			body:       `{"current_password":"old","new_password":"old"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing fields",
			identity:   &fakeIdentity{user: account, verified: true},
			body:       `{"current_password":"old"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newUserRouter(tt.identity, &fakeRecordStore{})

			req := httptest.NewRequest(http.MethodPut, "/api/change-password/"+testUID, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantMsg != "" {
				var response struct {
					Message string `json:"message"`
				}
				if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if response.Message != tt.wantMsg {
					t.Errorf("unexpected message: %s", response.Message)
				}
			}
		})
	}
}
