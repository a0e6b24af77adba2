package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/paradoxie/niche-dashboard/internal/domain/valueobject"
)

func ptr(t time.Time) *time.Time { return &t }

func TestNewProjectNormalizesInput(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	p, err := NewProject(ProjectDetails{
		Name:       "  Garden Tools  ",
		Domain:     "https://www.GardenTools.io/",
		GithubRepo: "https://github.com/acme/garden/",
		Tags:       []string{"seo", " SEO ", "", "affiliate"},
	}, now)
	if err != nil {
		t.Fatalf("NewProject error: %v", err)
	}

	if p.Name() != "Garden Tools" {
		t.Errorf("name = %q", p.Name())
	}
	if p.Domain() != "gardentools.io" {
		t.Errorf("domain = %q", p.Domain())
	}
	if p.GithubRepo() != "acme/garden" {
		t.Errorf("repo = %q", p.GithubRepo())
	}
	if len(p.Tags()) != 2 {
		t.Errorf("tags = %v", p.Tags())
	}
	if p.AdsenseStatus() != valueobject.AdsenseNone {
		t.Errorf("adsense = %q", p.AdsenseStatus())
	}
	if p.ID() == "" || !p.CreatedAt().Equal(now) {
		t.Error("expected id and createdAt to be set")
	}
}

func TestNewProjectValidation(t *testing.T) {
	tests := []struct {
		name    string
		details ProjectDetails
		field   string
	}{
		{"missing name", ProjectDetails{Domain: "a.com"}, "name"},
		{"missing domain", ProjectDetails{Name: "x"}, "domain"},
		{"bad domain", ProjectDetails{Name: "x", Domain: "localhost"}, "domain"},
		{"bad repo", ProjectDetails{Name: "x", Domain: "a.com", GithubRepo: "just-a-name"}, "github_repo"},
		{"bad adsense", ProjectDetails{Name: "x", Domain: "a.com", AdsenseStatus: "paused"}, "adsense_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProject(tt.details, time.Now())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestEffectiveLastUpdate(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	p := ReconstructProject(ProjectState{ID: "p1", Name: "x", Domain: "a.com"})
	if !p.EffectiveLastUpdate().IsZero() {
		t.Fatal("project without signals should report zero last update")
	}

	p = ReconstructProject(ProjectState{
		ID:                "p1",
		LastGithubPush:    ptr(base.Add(48 * time.Hour)),
		LastContentUpdate: ptr(base.Add(72 * time.Hour)),
		LastManualUpdate:  ptr(base),
	})
	if got := p.EffectiveLastUpdate(); !got.Equal(base.Add(72 * time.Hour)) {
		t.Errorf("EffectiveLastUpdate = %v", got)
	}
}

func TestRecordGithubPushOnlyMovesForward(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	p := ReconstructProject(ProjectState{ID: "p1", LastGithubPush: ptr(now.Add(-time.Hour))})

	if p.RecordGithubPush(now.Add(-2*time.Hour), now) {
		t.Error("older push must not replace newer one")
	}
	if !p.RecordGithubPush(now, now) {
		t.Error("newer push should be recorded")
	}
	if got := p.LastGithubPush(); got == nil || !got.Equal(now) {
		t.Errorf("LastGithubPush = %v", got)
	}
}

func TestStateRoundTripCopiesTimes(t *testing.T) {
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	p := ReconstructProject(ProjectState{ID: "p1", DomainExpiry: &expiry})

	state := p.State()
	*state.DomainExpiry = expiry.AddDate(1, 0, 0)

	if !p.DomainExpiry().Equal(expiry) {
		t.Error("State must not expose internal pointers")
	}
}
