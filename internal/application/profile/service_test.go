package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/healtrack/healtrack-api/internal/domain/profile"
)

type fakeProfiles struct {
	prefs  domain.Preferences
	getErr error
	saved  domain.Preferences
}

func (f *fakeProfiles) GetPreferences(context.Context, string) (domain.Preferences, error) {
	return f.prefs, f.getErr
}

func (f *fakeProfiles) SavePreferences(_ context.Context, _ string, prefs domain.Preferences) error {
	f.saved = prefs
	return nil
}

func (f *fakeProfiles) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type fakeShares struct {
	created *domain.ShareLink
	err     error
}

func (f *fakeShares) Create(_ context.Context, link *domain.ShareLink) error {
	if f.err != nil {
		return f.err
	}
	f.created = link
	return nil
}

func (f *fakeShares) DeleteByUser(context.Context, string) (int64, error) { return 0, nil }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testTime = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func newService(profiles *fakeProfiles, shares *fakeShares) *Service {
	return NewService(profiles, shares, fixedClock{t: testTime})
}

func TestUpdateNotificationPreferencesMerges(t *testing.T) {
	profiles := &fakeProfiles{prefs: domain.Preferences{
		"email": true,
		"push":  true,
	}}
	svc := newService(profiles, &fakeShares{})

	prefs, err := svc.UpdateNotificationPreferences(context.Background(), "user-1", map[string]any{
		"push": false,
		"sms":  true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if prefs["email"] != true {
		t.Fatalf("untouched key lost: %+v", prefs)
	}
	if prefs["push"] != false || prefs["sms"] != true {
		t.Fatalf("patch not applied: %+v", prefs)
	}
	if prefs["updated_at"] != testTime.Format(time.RFC3339) {
		t.Fatalf("updated_at = %v", prefs["updated_at"])
	}
	if profiles.saved == nil {
		t.Fatalf("merged preferences not persisted")
	}
}

func TestUpdateNotificationPreferencesFirstWrite(t *testing.T) {
	profiles := &fakeProfiles{prefs: nil}
	svc := newService(profiles, &fakeShares{})

	prefs, err := svc.UpdateNotificationPreferences(context.Background(), "user-1", map[string]any{"email": true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if prefs["email"] != true {
		t.Fatalf("prefs = %+v", prefs)
	}
}

func TestUpdateNotificationPreferencesSurfacesLookupError(t *testing.T) {
	profiles := &fakeProfiles{getErr: errors.New("db down")}
	svc := newService(profiles, &fakeShares{})
	if _, err := svc.UpdateNotificationPreferences(context.Background(), "user-1", map[string]any{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCreateShare(t *testing.T) {
	shares := &fakeShares{}
	svc := newService(&fakeProfiles{}, shares)

	payload := map[string]any{"reportId": "r1", "sections": []any{"summary"}}
	id, err := svc.CreateShare(context.Background(), "user-1", payload)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatalf("empty share id")
	}
	if shares.created == nil {
		t.Fatalf("link not persisted")
	}
	if shares.created.UserID != "user-1" {
		t.Fatalf("owner not stamped: %+v", shares.created)
	}
	if !shares.created.CreatedAt.Equal(testTime) {
		t.Fatalf("createdAt not stamped")
	}
	if shares.created.Payload["reportId"] != "r1" {
		t.Fatalf("payload lost: %+v", shares.created.Payload)
	}
}

func TestCreateShareSurfacesRepoError(t *testing.T) {
	svc := newService(&fakeProfiles{}, &fakeShares{err: errors.New("insert failed")})
	if _, err := svc.CreateShare(context.Background(), "user-1", map[string]any{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCreateShareIDsAreUnique(t *testing.T) {
	shares := &fakeShares{}
	svc := newService(&fakeProfiles{}, shares)

	a, _ := svc.CreateShare(context.Background(), "user-1", map[string]any{})
	b, _ := svc.CreateShare(context.Background(), "user-1", map[string]any{})
	if a == b {
		t.Fatalf("share ids must be random, got %s twice", a)
	}
}
