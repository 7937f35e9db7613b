package workspace

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/ekkora/internal/apperr"
	"github.com/mmynk/ekkora/internal/docstore/memory"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/storage"
)

var (
	owner  = &identity.Identity{UID: "owner-1", Email: "Pastor@Example.com", DisplayName: "Pastor"}
	viewer = &identity.Identity{UID: "viewer-1", Email: "viewer@example.com", DisplayName: "Viewer"}
	fixed  = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
)

func newRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo := storage.New(memory.New())
	t.Cleanup(func() { repo.Close() })
	return repo
}

// onboard creates the owner's church and opens the owner's workspace.
func onboard(t *testing.T, repo *storage.Repository, opts ...Option) *Workspace {
	t.Helper()
	ctx := context.Background()
	if _, err := CreateChurch(ctx, repo, owner, ChurchInput{Name: "Igreja Central", City: "Recife", State: "PE"}); err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	w, err := Open(ctx, repo, owner, opts...)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

// join binds id to the owner's church with role.
func join(t *testing.T, repo *storage.Repository, id *identity.Identity, role models.Role) *Workspace {
	t.Helper()
	ctx := context.Background()
	if err := repo.CreateProfile(ctx, id.UID, id.Email, id.DisplayName); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if err := repo.BindProfile(ctx, id.UID, owner.UID); err != nil {
		t.Fatalf("BindProfile failed: %v", err)
	}
	m := &models.Membership{ChurchID: owner.UID, UID: id.UID, Role: role, Name: id.DisplayName, Email: id.Email}
	if err := repo.PutMember(ctx, m); err != nil {
		t.Fatalf("PutMember failed: %v", err)
	}
	w, err := Open(ctx, repo, id, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func TestCreateChurchOnboardsOwner(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	church, err := CreateChurch(ctx, repo, owner, ChurchInput{Name: "  Igreja Central ", City: "Recife"})
	if err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	if church.ID != owner.UID || church.OwnerUID != owner.UID {
		t.Errorf("church = %+v, want id and owner %s", church, owner.UID)
	}
	if church.Name != "Igreja Central" {
		t.Errorf("Name = %q, want trimmed", church.Name)
	}

	member, err := repo.GetMember(ctx, church.ID, owner.UID)
	if err != nil || member == nil {
		t.Fatalf("GetMember = %v, %v", member, err)
	}
	if member.Role != models.RoleAdmin {
		t.Errorf("owner role = %s, want admin", member.Role)
	}
	if member.Email != "pastor@example.com" {
		t.Errorf("owner email = %q, want lower-cased", member.Email)
	}

	profile, err := repo.GetProfile(ctx, owner.UID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.ChurchID != church.ID {
		t.Errorf("profile churchId = %q, want %q", profile.ChurchID, church.ID)
	}

	_, err = CreateChurch(ctx, repo, owner, ChurchInput{Name: "Second"})
	if !apperr.Is(err, apperr.Conflict) {
		t.Errorf("second CreateChurch error = %v, want conflict", err)
	}

	if _, err := CreateChurch(ctx, repo, viewer, ChurchInput{Name: "  "}); !apperr.Is(err, apperr.Validation) {
		t.Errorf("blank name error = %v, want validation", err)
	}
}

func TestCreateChurchRebindsDanglingProfile(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	if err := repo.CreateProfile(ctx, owner.UID, owner.Email, owner.DisplayName); err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	if err := repo.BindProfile(ctx, owner.UID, "gone"); err != nil {
		t.Fatalf("BindProfile failed: %v", err)
	}

	church, err := CreateChurch(ctx, repo, owner, ChurchInput{Name: "Nova"})
	if err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	profile, _ := repo.GetProfile(ctx, owner.UID)
	if profile.ChurchID != church.ID {
		t.Errorf("profile churchId = %q, want %q", profile.ChurchID, church.ID)
	}
}

func TestCreateEntry(t *testing.T) {
	repo := newRepo(t)
	w := onboard(t, repo)
	ctx := context.Background()

	if _, err := w.CreateCategory(ctx, "income", "Dízimo"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	tests := []struct {
		name         string
		input        EntryInput
		wantKind     apperr.Kind
		wantCategory string
	}{
		{
			name:         "known category keeps its name",
			input:        EntryInput{Type: "income", Amount: 100, Category: "dizimo", Date: "2024-03-10"},
			wantCategory: "Dízimo",
		},
		{
			name:         "unknown category falls back",
			input:        EntryInput{Type: "income", Amount: 50, Category: "Bazar", Date: "2024-03-10"},
			wantCategory: models.FallbackCategory,
		},
		{
			name:         "category of the other type falls back",
			input:        EntryInput{Type: "expense", Amount: 50, Category: "Dízimo", Date: "2024-03-10"},
			wantCategory: models.FallbackCategory,
		},
		{
			name:     "missing date",
			input:    EntryInput{Type: "income", Amount: 10, Category: "Dízimo"},
			wantKind: apperr.Validation,
		},
		{
			name:     "zero amount",
			input:    EntryInput{Type: "income", Amount: 0, Category: "Dízimo", Date: "2024-03-10"},
			wantKind: apperr.Validation,
		},
		{
			name:     "missing category",
			input:    EntryInput{Type: "expense", Amount: 10, Date: "2024-03-10"},
			wantKind: apperr.Validation,
		},
		{
			name:     "unknown type",
			input:    EntryInput{Type: "transfer", Amount: 10, Category: "x", Date: "2024-03-10"},
			wantKind: apperr.Validation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := w.CreateEntry(ctx, tt.input)
			if tt.wantKind != apperr.Internal {
				if !apperr.Is(err, tt.wantKind) {
					t.Fatalf("CreateEntry error = %v, want %s", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateEntry failed: %v", err)
			}
			if e.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", e.Category, tt.wantCategory)
			}
			if e.Date.Hour() != 12 || e.Date.Location() != time.UTC {
				t.Errorf("Date = %v, want noon UTC", e.Date)
			}
			if e.CreatedByUID != owner.UID {
				t.Errorf("CreatedByUID = %q, want %q", e.CreatedByUID, owner.UID)
			}
		})
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	repo := newRepo(t)
	w := onboard(t, repo)
	ctx := context.Background()

	e, err := w.CreateEntry(ctx, EntryInput{Type: "expense", Amount: 30, Category: "Luz", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	updated, err := w.UpdateEntry(ctx, e.ID, EntryInput{Type: "expense", Amount: 45.5, Category: "Luz", Note: "março", Date: "2024-03-02"})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if math.Abs(updated.Amount-45.5) > 0.01 || updated.Note != "março" {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := w.UpdateEntry(ctx, "missing", EntryInput{Type: "expense", Amount: 1, Category: "Luz", Date: "2024-03-02"}); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("UpdateEntry(missing) error = %v, want not found", err)
	}

	if err := w.DeleteEntry(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	entries, err := w.ListEntries(ctx, w.CurrentMonth(), "")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ListEntries = %d entries, want 0", len(entries))
	}
}

func TestRoleGuard(t *testing.T) {
	repo := newRepo(t)
	onboard(t, repo)
	ctx := context.Background()

	v := join(t, repo, viewer, models.RoleViewer)
	treasurer := join(t, repo, &identity.Identity{UID: "t-1", Email: "t@example.com"}, models.RoleTreasurer)

	entry := EntryInput{Type: "income", Amount: 10, Category: "Oferta", Date: "2024-03-03"}
	if _, err := v.CreateEntry(ctx, entry); !apperr.Is(err, apperr.Permission) {
		t.Errorf("viewer CreateEntry error = %v, want permission", err)
	}
	if _, err := v.CreateCategory(ctx, "income", "Oferta"); !apperr.Is(err, apperr.Permission) {
		t.Errorf("viewer CreateCategory error = %v, want permission", err)
	}
	if _, err := treasurer.CreateEntry(ctx, entry); err != nil {
		t.Errorf("treasurer CreateEntry failed: %v", err)
	}
	if _, err := treasurer.Invite(ctx, "new@example.com", "viewer"); !apperr.Is(err, apperr.Permission) {
		t.Errorf("treasurer Invite error = %v, want permission", err)
	}
	if _, err := treasurer.UpdateChurch(ctx, ChurchInput{Name: "x"}); !apperr.Is(err, apperr.Permission) {
		t.Errorf("treasurer UpdateChurch error = %v, want permission", err)
	}
	if _, err := treasurer.CreatePerson(ctx, PersonInput{Name: "Ana"}); !apperr.Is(err, apperr.Permission) {
		t.Errorf("treasurer CreatePerson error = %v, want permission", err)
	}

	// Reads are open to every role.
	if _, err := v.ListEntries(ctx, v.CurrentMonth(), ""); err != nil {
		t.Errorf("viewer ListEntries failed: %v", err)
	}
}

func TestMembers(t *testing.T) {
	repo := newRepo(t)
	w := onboard(t, repo)
	ctx := context.Background()
	join(t, repo, viewer, models.RoleViewer)

	inv, err := w.Invite(ctx, "  New.Member@Example.COM ", "treasurer")
	if err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if inv.Email != "new.member@example.com" || inv.Role != models.RoleTreasurer || !inv.Pending() {
		t.Errorf("invite = %+v", inv)
	}
	index, err := repo.GetIndexInvite(ctx, "new.member@example.com")
	if err != nil || !index.Pending() || index.ChurchID != owner.UID {
		t.Errorf("index invite = %+v, %v", index, err)
	}

	if _, err := w.Invite(ctx, "not-an-email", "viewer"); !apperr.Is(err, apperr.Validation) {
		t.Errorf("Invite(bad email) error = %v, want validation", err)
	}
	if _, err := w.Invite(ctx, "x@example.com", "owner"); !apperr.Is(err, apperr.Validation) {
		t.Errorf("Invite(bad role) error = %v, want validation", err)
	}

	pending, err := w.ListInvites(ctx, true)
	if err != nil {
		t.Fatalf("ListInvites failed: %v", err)
	}
	if len(pending) != 1 {
		t.Errorf("pending invites = %d, want 1", len(pending))
	}

	if err := w.RemoveMember(ctx, owner.UID); !apperr.Is(err, apperr.Validation) {
		t.Errorf("RemoveMember(self) error = %v, want validation", err)
	}
	if err := w.RemoveMember(ctx, viewer.UID); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	members, err := w.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 1 || members[0].UID != owner.UID {
		t.Errorf("members = %+v, want only the owner", members)
	}
	profile, err := repo.GetProfile(ctx, viewer.UID)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Bound() {
		t.Errorf("removed member still bound to %q", profile.ChurchID)
	}
}

func TestRemovedMemberCanOnboard(t *testing.T) {
	repo := newRepo(t)
	onboard(t, repo)
	ctx := context.Background()
	join(t, repo, viewer, models.RoleViewer)

	// Membership gone but the profile still points at the church.
	if err := repo.DeleteMember(ctx, owner.UID, viewer.UID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}
	if _, err := Open(ctx, repo, viewer); !apperr.Is(err, apperr.Permission) {
		t.Fatalf("Open error = %v, want permission", err)
	}

	church, err := CreateChurch(ctx, repo, viewer, ChurchInput{Name: "Igreja Nova"})
	if err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	profile, _ := repo.GetProfile(ctx, viewer.UID)
	if profile.ChurchID != church.ID || church.ID != viewer.UID {
		t.Errorf("profile churchId = %q, church = %q", profile.ChurchID, church.ID)
	}
}

func TestPeople(t *testing.T) {
	repo := newRepo(t)
	w := onboard(t, repo)
	ctx := context.Background()

	ana, err := w.CreatePerson(ctx, PersonInput{Name: "Ana Souza", BirthDate: "1990-03-20", Email: "ANA@example.com"})
	if err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if ana.Status != models.DefaultPersonStatus || ana.Email != "ana@example.com" {
		t.Errorf("person = %+v", ana)
	}
	if got := w.Age(*ana); got != 33 {
		t.Errorf("Age = %d, want 33", got)
	}
	if _, err := w.CreatePerson(ctx, PersonInput{Name: "Bruno", Address: "Rua das Flores"}); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if _, err := w.CreatePerson(ctx, PersonInput{Name: "Carla", BirthDate: "20/03/1990"}); !apperr.Is(err, apperr.Validation) {
		t.Errorf("bad birth date error = %v, want validation", err)
	}

	found, err := w.ListPeople(ctx, "flores")
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Bruno" {
		t.Errorf("search = %+v, want Bruno", found)
	}

	if _, err := w.UpdatePerson(ctx, ana.ID, PersonInput{Name: "Ana S.", Status: "inativo"}); err != nil {
		t.Fatalf("UpdatePerson failed: %v", err)
	}
	all, _ := w.ListPeople(ctx, "")
	if len(all) != 2 || all[0].Name != "Ana S." || all[0].BirthDate != "" {
		t.Errorf("people = %+v", all)
	}
}

func TestUpdatePreferences(t *testing.T) {
	repo := newRepo(t)
	onboard(t, repo)
	ctx := context.Background()

	p, err := UpdatePreferences(ctx, repo, owner, 5000, "usd")
	if err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	if p.Currency != "USD" || math.Abs(p.MonthlyTarget-5000) > 0.01 {
		t.Errorf("profile = %+v", p)
	}
	if _, err := UpdatePreferences(ctx, repo, owner, -1, "BRL"); !apperr.Is(err, apperr.Validation) {
		t.Errorf("negative target error = %v, want validation", err)
	}
	if _, err := UpdatePreferences(ctx, repo, owner, 1, "XYZ1"); !apperr.Is(err, apperr.Validation) {
		t.Errorf("bad currency error = %v, want validation", err)
	}
}

func TestWatchEntries(t *testing.T) {
	repo := newRepo(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	w := onboard(t, repo, WithMetrics(metrics))
	ctx := context.Background()

	updates := make(chan []models.FinanceEntry, 16)
	view, err := w.WatchEntries(ctx, w.CurrentMonth(), "", func(entries []models.FinanceEntry, err error) {
		if err == nil {
			updates <- entries
		}
	})
	if err != nil {
		t.Fatalf("WatchEntries failed: %v", err)
	}
	if got := testutil.ToFloat64(metrics.liveViews); got != 1 {
		t.Errorf("live views = %v, want 1", got)
	}

	waitLen(t, updates, 0)
	if _, err := w.CreateEntry(ctx, EntryInput{Type: "income", Amount: 10, Category: "Oferta", Date: "2024-03-05"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	waitLen(t, updates, 1)

	// Entries of another month stay out of the view.
	if _, err := w.CreateEntry(ctx, EntryInput{Type: "income", Amount: 10, Category: "Oferta", Date: "2024-04-05"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	current, ok, err := view.Current()
	if !ok || err != nil {
		t.Fatalf("Current = %v, %v", ok, err)
	}
	if len(current) != 1 {
		t.Errorf("Current = %d entries, want 1", len(current))
	}

	view.Close()
	view.Close()
	if got := testutil.ToFloat64(metrics.liveViews); got != 0 {
		t.Errorf("live views after close = %v, want 0", got)
	}
}

func TestCloseDetachesViews(t *testing.T) {
	repo := newRepo(t)
	docs := repo.Docs().(*memory.Store)
	w := onboard(t, repo)
	ctx := context.Background()

	if _, err := w.WatchMembers(ctx, nil); err != nil {
		t.Fatalf("WatchMembers failed: %v", err)
	}
	if _, err := w.WatchPeople(ctx, "", nil); err != nil {
		t.Fatalf("WatchPeople failed: %v", err)
	}
	if got := docs.Subscriptions(); got != 2 {
		t.Fatalf("subscriptions = %d, want 2", got)
	}

	w.Close()
	if got := docs.Subscriptions(); got != 0 {
		t.Errorf("subscriptions after Close = %d, want 0", got)
	}
	if _, err := w.WatchCategories(ctx, "", nil); err == nil {
		t.Error("WatchCategories after Close succeeded, want error")
	}
}

func TestDashboard(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	if _, err := CreateChurch(ctx, repo, owner, ChurchInput{Name: "Igreja"}); err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	if _, err := UpdatePreferences(ctx, repo, owner, 1000, "BRL"); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	w, err := Open(ctx, repo, owner, WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer w.Close()

	for _, in := range []EntryInput{
		{Type: "income", Amount: 500, Category: "Dízimo", Date: "2024-03-01"},
		{Type: "income", Amount: 200, Category: "Oferta", Date: "2024-03-14"},
		{Type: "expense", Amount: 60, Category: "Luz", Date: "2024-03-12"},
		{Type: "expense", Amount: 999, Category: "Luz", Date: "2024-02-28"},
	} {
		if _, err := w.CreateEntry(ctx, in); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	d, err := w.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if math.Abs(d.Totals.Income-700) > 0.01 || math.Abs(d.Totals.Expense-60) > 0.01 {
		t.Errorf("totals = %+v", d.Totals)
	}
	if d.Totals.IncomeCount != 2 || d.Totals.ExpenseCount != 1 {
		t.Errorf("counts = %+v", d.Totals)
	}
	if math.Abs(d.Average7-20) > 0.01 {
		t.Errorf("Average7 = %v, want 20", d.Average7)
	}
	if math.Abs(d.GoalProgress-70) > 0.01 {
		t.Errorf("GoalProgress = %v, want 70", d.GoalProgress)
	}
	if len(d.Series) != 31 {
		t.Errorf("series = %d days, want 31", len(d.Series))
	}
	if len(d.Latest) != 3 || d.Latest[0].Category != models.FallbackCategory {
		t.Errorf("latest = %+v", d.Latest)
	}
	if d.Currency != "BRL" || d.Labels.Income == "" {
		t.Errorf("currency = %q, labels = %+v", d.Currency, d.Labels)
	}

	dashboards := make(chan *Dashboard, 16)
	view, err := w.WatchDashboard(ctx, func(d *Dashboard, err error) {
		if err == nil {
			dashboards <- d
		}
	})
	if err != nil {
		t.Fatalf("WatchDashboard failed: %v", err)
	}
	defer view.Close()
	first := <-dashboards
	if math.Abs(first.Totals.Balance-640) > 0.01 {
		t.Errorf("watched balance = %v, want 640", first.Totals.Balance)
	}

	if _, err := w.CreateEntry(ctx, EntryInput{Type: "income", Amount: 300, Category: "Oferta", Date: "2024-03-15"}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}
	deadline := time.After(2 * time.Second)
	for {
		select {
		case d := <-dashboards:
			if math.Abs(d.Totals.Balance-940) < 0.01 {
				if math.Abs(d.GoalProgress-100) > 0.01 {
					t.Errorf("GoalProgress = %v, want clamped 100", d.GoalProgress)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for recomputed dashboard")
		}
	}
}

func waitLen(t *testing.T, ch <-chan []models.FinanceEntry, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case entries := <-ch:
			if len(entries) == n {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %d entries", n)
		}
	}
}
