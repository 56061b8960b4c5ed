package seo_test

import (
	"context"
	"errors"
	"testing"

	"idx-go/internal/database"
	"idx-go/internal/seo"
)

var errInjected = errors.New("injected failure")

// spyDatabase counts option writes and can fail selected calls.
type spyDatabase struct {
	seo.Database

	optionWrites    int
	failTaxonomies  bool
	failNotifyRead  bool
	failScheduling  bool
	failIndexDelete bool
}

func (s *spyDatabase) SetOption(ctx context.Context, name string, value any) error {
	s.optionWrites++
	return s.Database.SetOption(ctx, name, value)
}

func (s *spyDatabase) PublicTaxonomies(ctx context.Context) ([]string, error) {
	if s.failTaxonomies {
		return nil, errInjected
	}
	return s.Database.PublicTaxonomies(ctx)
}

func (s *spyDatabase) NotificationByID(ctx context.Context, id string) (*seo.Notification, error) {
	if s.failNotifyRead {
		return nil, errInjected
	}
	return s.Database.NotificationByID(ctx, id)
}

func (s *spyDatabase) IsScheduled(ctx context.Context, hook string) (bool, error) {
	if s.failScheduling {
		return false, errInjected
	}
	return s.Database.IsScheduled(ctx, hook)
}

func (s *spyDatabase) DeleteTermIndexablesOutside(ctx context.Context, taxonomies []string, limit int) (int, error) {
	if s.failIndexDelete {
		return 0, errInjected
	}
	return s.Database.DeleteTermIndexablesOutside(ctx, taxonomies, limit)
}

func lastKnownPublic(t *testing.T, db seo.OptionStore) []string {
	t.Helper()
	var got []string
	if _, err := db.GetOption(context.Background(), seo.OptionLastKnownPublicTaxonomies, &got); err != nil {
		t.Fatalf("GetOption() error = %v", err)
	}
	return got
}

func countEvents(t *testing.T, db *database.SQLiteDatabase) int {
	t.Helper()
	events, err := db.ListEvents(context.Background())
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	return len(events)
}

func countNotifications(t *testing.T, db *database.SQLiteDatabase, id string) int {
	t.Helper()
	all, err := db.ListNotifications(context.Background())
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	n := 0
	for _, x := range all {
		if x.ID == id {
			n++
		}
	}
	return n
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
