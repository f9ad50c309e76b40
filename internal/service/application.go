// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trackr/trackr/internal/model"
	"github.com/trackr/trackr/internal/stats"
	"github.com/trackr/trackr/internal/supabase"
)

// Service errors.
var (
	ErrRecordNotFound = errors.New("application not found")
	ErrNotOwner       = errors.New("application does not belong to the authenticated user")
	ErrUserNotFound   = errors.New("user not found")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrSamePassword   = errors.New("new password must be different from current password")
)

// applicationsTable is the collaborator table holding application records.
const applicationsTable = "Applications"

// RecordStore is the table surface of the collaborator.
// *supabase.Client implements it; tests substitute fakes.
type RecordStore interface {
	Select(ctx context.Context, table string, filter supabase.Filter, out any) error
	Insert(ctx context.Context, table string, row, out any) error
	Update(ctx context.Context, table string, filter supabase.Filter, row, out any) error
	Delete(ctx context.Context, table string, filter supabase.Filter, out any) error
}

// ApplicationService handles application-record business logic.
type ApplicationService struct {
	store RecordStore
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(store RecordStore) *ApplicationService {
	return &ApplicationService{store: store}
}

// List fetches all records belonging to one user. No pagination, no sort
// guarantee beyond what the store returns.
func (s *ApplicationService) List(ctx context.Context, uid string) ([]model.Application, error) {
	apps := make([]model.Application, 0)
	if err := s.store.Select(ctx, applicationsTable, supabase.Eq("uid", uid), &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// DashboardStats aggregates one user's records as of now.
func (s *ApplicationService) DashboardStats(ctx context.Context, uid string, now time.Time) (stats.Summary, error) {
	apps, err := s.List(ctx, uid)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Summarize(apps, now)
}

// Create inserts a new record. The store assigns id and created_at.
// Returns the inserted rows as the store reports them.
func (s *ApplicationService) Create(ctx context.Context, app model.Application) ([]model.Application, error) {
	app.ID = ""
	app.CreatedAt = ""

	inserted := make([]model.Application, 0)
	if err := s.store.Insert(ctx, applicationsTable, app, &inserted); err != nil {
		return nil, err
	}
	return inserted, nil
}

// Update overwrites the record with the given id on behalf of requesterUID.
// The record must exist and belong to the requester.
func (s *ApplicationService) Update(ctx context.Context, requesterUID, id string, app model.Application) ([]model.Application, error) {
	if err := s.authorize(ctx, requesterUID, id); err != nil {
		return nil, err
	}

	app.ID = id

	updated := make([]model.Application, 0)
	if err := s.store.Update(ctx, applicationsTable, supabase.Eq("id", id), app, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the record with the given id on behalf of requesterUID.
// The record must exist and belong to the requester.
func (s *ApplicationService) Delete(ctx context.Context, requesterUID, id string) ([]model.Application, error) {
	if err := s.authorize(ctx, requesterUID, id); err != nil {
		return nil, err
	}

	deleted := make([]model.Application, 0)
	if err := s.store.Delete(ctx, applicationsTable, supabase.Eq("id", id), &deleted); err != nil {
		return nil, err
	}
	return deleted, nil
}

// authorize checks that the record exists and is owned by requesterUID.
func (s *ApplicationService) authorize(ctx context.Context, requesterUID, id string) error {
	rows := make([]model.Application, 0)
	if err := s.store.Select(ctx, applicationsTable, supabase.Eq("id", id), &rows); err != nil {
		return fmt.Errorf("look up application %s: %w", id, err)
	}
	if len(rows) == 0 {
		return ErrRecordNotFound
	}
	if rows[0].UID != requesterUID {
		return ErrNotOwner
	}
	return nil
}
