package avatar

import (
	"context"
	"strings"
	"testing"

	"idx-go/internal/config"
	"idx-go/internal/seo"
	"idx-go/internal/testutil"
)

var testAvatarConfig = config.AvatarConfig{
	BaseURL:      "https://secure.gravatar.com/avatar/",
	Size:         500,
	DefaultImage: "mm",
	Rating:       "g",
}

func TestGravatar_URL(t *testing.T) {
	g := NewGravatar(nil, testAvatarConfig)

	// md5("myemailaddress@example.com")
	want := "https://secure.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?d=mm&r=g&s=500"

	tests := []struct {
		name  string
		email string
	}{
		{"plain", "myemailaddress@example.com"},
		{"case and whitespace are normalised", "  MyEmailAddress@example.com "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.URL(tt.email); got != want {
				t.Errorf("URL(%q) = %q, want %q", tt.email, got, want)
			}
		})
	}

	t.Run("no query without options", func(t *testing.T) {
		bare := NewGravatar(nil, config.AvatarConfig{BaseURL: "https://a.example"})
		if got := bare.URL("x@example.com"); strings.Contains(got, "?") {
			t.Errorf("URL() = %q, want no query string", got)
		}
	})
}

func TestGravatar_FindAlternativeImage(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDatabase(t)
	g := NewGravatar(db, testAvatarConfig)

	withEmail := testutil.CreateUser(t, db, "ada")
	withoutEmail := &seo.User{Login: "bob", Nicename: "bob"}
	if err := db.InsertUser(ctx, withoutEmail); err != nil {
		t.Fatalf("InsertUser() error = %v", err)
	}

	t.Run("user with email", func(t *testing.T) {
		img, err := g.FindAlternativeImage(ctx, seo.NewIndexable(seo.ObjectTypeUser, withEmail.ID))
		if err != nil {
			t.Fatalf("FindAlternativeImage() error = %v", err)
		}
		if img == nil {
			t.Fatal("FindAlternativeImage() = nil")
		}
		if img.Source != seo.ImageSourceGravatar {
			t.Errorf("Source = %q, want %q", img.Source, seo.ImageSourceGravatar)
		}
		if img.URL != g.URL(withEmail.Email) {
			t.Errorf("URL = %q, want %q", img.URL, g.URL(withEmail.Email))
		}
	})

	t.Run("user without email", func(t *testing.T) {
		img, err := g.FindAlternativeImage(ctx, seo.NewIndexable(seo.ObjectTypeUser, withoutEmail.ID))
		if err != nil {
			t.Fatalf("FindAlternativeImage() error = %v", err)
		}
		if img != nil {
			t.Errorf("FindAlternativeImage() = %+v, want nil", img)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		img, err := g.FindAlternativeImage(ctx, seo.NewIndexable(seo.ObjectTypeUser, 999))
		if err != nil {
			t.Fatalf("FindAlternativeImage() error = %v", err)
		}
		if img != nil {
			t.Errorf("FindAlternativeImage() = %+v, want nil", img)
		}
	})

	t.Run("not a user indexable", func(t *testing.T) {
		img, err := g.FindAlternativeImage(ctx, seo.NewIndexable(seo.ObjectTypeTerm, withEmail.ID))
		if err != nil {
			t.Fatalf("FindAlternativeImage() error = %v", err)
		}
		if img != nil {
			t.Errorf("FindAlternativeImage() = %+v, want nil", img)
		}
	})
}
