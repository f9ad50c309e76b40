package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/trackr/trackr/internal/model"
	"github.com/trackr/trackr/internal/supabase"
)

// IdentityProvider is the auth surface of the collaborator.
// *supabase.Client implements it; tests substitute fakes.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignUp(ctx context.Context, email, password string) (*supabase.Session, error)
	VerifyPassword(ctx context.Context, email, password string) (bool, error)
	AdminGetUser(ctx context.Context, id string) (*supabase.User, error)
	AdminUpdateUser(ctx context.Context, id string, attrs map[string]any) (*supabase.User, error)
	AdminDeleteUser(ctx context.Context, id string) error
}

// UserService handles identity business logic: sign-in, sign-up, profile
// editing, deletion, and password changes.
type UserService struct {
	identity IdentityProvider
	store    RecordStore
}

// NewUserService creates a new UserService. The record store is needed for
// the cascade delete of a user's application records.
func NewUserService(identity IdentityProvider, store RecordStore) *UserService {
	return &UserService{identity: identity, store: store}
}

// AuthResult is a successful sign-in or sign-up.
type AuthResult struct {
	User  map[string]any
	Token string
}

// Login authenticates the credentials against the identity collaborator.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:  publicUser(session.User.Metadata),
		Token: session.AccessToken,
	}, nil
}

// Signup registers new credentials with the identity collaborator.
func (s *UserService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		User:  publicUser(session.User.Metadata),
		Token: session.AccessToken,
	}, nil
}

// UpdateProfile overwrites a user's metadata wholesale and returns the
// sanitized result.
func (s *UserService) UpdateProfile(ctx context.Context, id string, profile model.UserProfile) (map[string]any, error) {
	user, err := s.identity.AdminUpdateUser(ctx, id, map[string]any{
		"user_metadata": profile,
	})
	if err != nil {
		return nil, err
	}
	return publicUser(user.Metadata), nil
}

// DeleteUser removes the identity record, then cascade-deletes every
// application record owned by that user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.identity.AdminDeleteUser(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, applicationsTable, supabase.Eq("uid", id), nil); err != nil {
		return fmt.Errorf("cascade delete applications for %s: %w", id, err)
	}
	return nil
}

// ChangePassword re-verifies the current password by attempting a fresh
// credential grant, rejects a no-op change, then sets the new password.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.identity.AdminGetUser(ctx, id)
	if err != nil {
		var apiErr *supabase.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return ErrUserNotFound
		}
		return err
	}
	if user.Email == "" {
		return ErrUserNotFound
	}

	ok, err := s.identity.VerifyPassword(ctx, user.Email, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWrongPassword
	}

	if currentPassword == newPassword {
		return ErrSamePassword
	}

	_, err = s.identity.AdminUpdateUser(ctx, id, map[string]any{
		"password": newPassword,
	})
	return err
}

// publicUser strips the internal subject identifier from identity metadata
// and re-exposes it as id.
func publicUser(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta)+1)
	var sub any
	for k, v := range meta {
		if k == "sub" {
			sub = v
			continue
		}
		out[k] = v
	}
	out["id"] = sub
	return out
}
