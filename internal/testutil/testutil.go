// Package testutil provides shared helpers and data factories for tests.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trackr/trackr/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// NewTestApplication creates a test application record with sensible defaults.
func NewTestApplication(t testing.TB, uid string) model.Application {
	t.Helper()
	now := time.Now().UTC()
	return model.Application{
		ID:          uuid.NewString(),
		UID:         uid,
		JobName:     "Backend Engineer",
		CompanyName: "Acme",
		Status:      model.StatusApplied,
		Link:        "https://jobs.example.com/backend",
		Salary:      "100000",
		CreatedAt:   now.Format(time.RFC3339),
	}
}

// NewTestApplicationAt creates a test application record created at a
// specific time, for aggregation window tests.
func NewTestApplicationAt(t testing.TB, uid, status string, createdAt time.Time) model.Application {
	t.Helper()
	return model.Application{
		ID:          uuid.NewString(),
		UID:         uid,
		JobName:     "Backend Engineer",
		CompanyName: "Acme",
		Status:      status,
		CreatedAt:   createdAt.UTC().Format(time.RFC3339),
	}
}

// NewTestProfile creates a test user profile with sensible defaults.
func NewTestProfile(t testing.TB, email string) model.UserProfile {
	t.Helper()
	return model.UserProfile{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Phone:      "+1-555-0100",
		Email:      email,
		Occupation: "Engineer",
		Location:   "London",
	}
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
