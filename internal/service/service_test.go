package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/time/rate"

	"github.com/mmynk/ekkora/internal/auth"
	"github.com/mmynk/ekkora/internal/docstore/memory"
	"github.com/mmynk/ekkora/internal/middleware"
	"github.com/mmynk/ekkora/internal/storage"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
	"github.com/mmynk/ekkora/pkg/api/apiconnect"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type clients struct {
	auth      apiconnect.AuthServiceClient
	session   apiconnect.SessionServiceClient
	church    apiconnect.ChurchServiceClient
	finance   apiconnect.FinanceServiceClient
	category  apiconnect.CategoryServiceClient
	member    apiconnect.MemberServiceClient
	people    apiconnect.PeopleServiceClient
	dashboard apiconnect.DashboardServiceClient
	report    apiconnect.ReportServiceClient
}

// setupTestServer serves every service over a memory store, behind the auth
// interceptor, the way the server binary wires them.
func setupTestServer(t *testing.T) *clients {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docs := memory.New()
	repo := storage.New(docs)

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(docs, rate.Inf, 1)
	workspaces := NewWorkspaces(repo, logger, workspace.WithClock(func() time.Time { return fixedNow }))

	interceptors := connect.WithInterceptors(middleware.NewAuthInterceptor(jwtManager,
		apiconnect.AuthServiceSignUpProcedure,
		apiconnect.AuthServiceSignInProcedure,
		apiconnect.SessionServiceResolveProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, repo, logger), interceptors))
	mux.Handle(apiconnect.NewSessionServiceHandler(NewSessionService(repo, logger), interceptors))
	mux.Handle(apiconnect.NewChurchServiceHandler(NewChurchService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewFinanceServiceHandler(NewFinanceService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewCategoryServiceHandler(NewCategoryService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewMemberServiceHandler(NewMemberService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewPeopleServiceHandler(NewPeopleService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewDashboardServiceHandler(NewDashboardService(workspaces, logger), interceptors))
	mux.Handle(apiconnect.NewReportServiceHandler(NewReportService(workspaces, logger), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		repo.Close()
	})

	c := http.DefaultClient
	return &clients{
		auth:      apiconnect.NewAuthServiceClient(c, server.URL),
		session:   apiconnect.NewSessionServiceClient(c, server.URL),
		church:    apiconnect.NewChurchServiceClient(c, server.URL),
		finance:   apiconnect.NewFinanceServiceClient(c, server.URL),
		category:  apiconnect.NewCategoryServiceClient(c, server.URL),
		member:    apiconnect.NewMemberServiceClient(c, server.URL),
		people:    apiconnect.NewPeopleServiceClient(c, server.URL),
		dashboard: apiconnect.NewDashboardServiceClient(c, server.URL),
		report:    apiconnect.NewReportServiceClient(c, server.URL),
	}
}

// authed wraps msg in a request carrying token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func signUp(t *testing.T, c *clients, email, name string) string {
	t.Helper()
	resp, err := c.auth.SignUp(context.Background(), connect.NewRequest(&api.SignUpRequest{
		Email:       email,
		Password:    "correct-horse",
		DisplayName: name,
	}))
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	return resp.Msg.Token
}

// onboardOwner signs up the owner, resolves once and creates the church.
func onboardOwner(t *testing.T, c *clients) string {
	t.Helper()
	ctx := context.Background()
	token := signUp(t, c, "pastor@example.com", "Pastor")

	if _, err := c.session.Resolve(ctx, authed(token, &api.ResolveRequest{Location: "./index.html"})); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if _, err := c.church.CreateChurch(ctx, authed(token, &api.CreateChurchRequest{Name: "Igreja Central", City: "Recife", State: "PE"})); err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	return token
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("code: expected %v, got %v (%v)", want, connectErr.Code(), err)
	}
}

func TestSignUpAndCurrentUser(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	token := signUp(t, c, "  Pastor@Example.com ", "Pastor")
	if token == "" {
		t.Fatal("expected a token")
	}

	resp, err := c.auth.GetCurrentUser(ctx, authed(token, &api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if resp.Msg.User.Email != "pastor@example.com" {
		t.Errorf("email: expected normalized address, got %q", resp.Msg.User.Email)
	}
	if resp.Msg.Profile != nil {
		t.Errorf("expected no profile before resolution, got %+v", resp.Msg.Profile)
	}

	_, err = c.auth.SignUp(ctx, connect.NewRequest(&api.SignUpRequest{Email: "pastor@example.com", Password: "correct-horse"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = c.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: "pastor@example.com", Password: "wrong-password"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestResolveFlow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	resp, err := c.session.Resolve(ctx, connect.NewRequest(&api.ResolveRequest{Location: "./dashboard.html"}))
	if err != nil {
		t.Fatalf("anonymous Resolve failed: %v", err)
	}
	if resp.Msg.State != "unauthenticated" {
		t.Errorf("anonymous state: expected unauthenticated, got %q", resp.Msg.State)
	}

	token := signUp(t, c, "pastor@example.com", "Pastor")
	resp, err = c.session.Resolve(ctx, authed(token, &api.ResolveRequest{
		Location: "./index.html",
		Hints:    map[string]string{"activeChurchId": "stale", "theme": "dark"},
	}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resp.Msg.State != "no_tenant" || resp.Msg.Destination != "./onboarding.html" || !resp.Msg.Navigated {
		t.Errorf("unbound: got state=%q destination=%q navigated=%v", resp.Msg.State, resp.Msg.Destination, resp.Msg.Navigated)
	}
	if _, ok := resp.Msg.Hints["activeChurchId"]; ok {
		t.Error("expected active church hint to be cleared")
	}
	if resp.Msg.Hints["theme"] != "dark" {
		t.Errorf("expected unrelated hints to survive, got %v", resp.Msg.Hints)
	}

	// Workspace calls need a church.
	_, err = c.dashboard.GetDashboard(ctx, authed(token, &api.GetDashboardRequest{}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	if _, err := c.church.CreateChurch(ctx, authed(token, &api.CreateChurchRequest{Name: "Igreja Central"})); err != nil {
		t.Fatalf("CreateChurch failed: %v", err)
	}
	_, err = c.church.CreateChurch(ctx, authed(token, &api.CreateChurchRequest{Name: "Second"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	resp, err = c.session.Resolve(ctx, authed(token, &api.ResolveRequest{Location: "./dashboard.html"}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resp.Msg.State != "in_workspace" || resp.Msg.Navigated {
		t.Errorf("bound: got state=%q navigated=%v", resp.Msg.State, resp.Msg.Navigated)
	}
	if resp.Msg.Role != "admin" || resp.Msg.Church == nil || resp.Msg.Church.Name != "Igreja Central" {
		t.Errorf("bound: got role=%q church=%+v", resp.Msg.Role, resp.Msg.Church)
	}
	if resp.Msg.Hints["activeChurchId"] != resp.Msg.Church.ID {
		t.Errorf("expected active church hint %q, got %v", resp.Msg.Church.ID, resp.Msg.Hints)
	}
}

func TestInviteAcceptance(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	if _, err := c.member.InviteMember(ctx, authed(owner, &api.InviteMemberRequest{Email: "Treasurer@Example.com", Role: "treasurer"})); err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	_, err := c.member.InviteMember(ctx, authed(owner, &api.InviteMemberRequest{Email: "not an email", Role: "viewer"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	guest := signUp(t, c, "treasurer@example.com", "Treasurer")

	resp, err := c.session.Resolve(ctx, authed(guest, &api.ResolveRequest{Location: "./index.html"}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resp.Msg.State != "pending_invite" || resp.Msg.Invite == nil || resp.Msg.Church == nil {
		t.Fatalf("expected pending invite with church, got %+v", resp.Msg)
	}
	if resp.Msg.Invite.Role != "treasurer" {
		t.Errorf("invite role: expected treasurer, got %q", resp.Msg.Invite.Role)
	}

	accept := true
	resp, err = c.session.Resolve(ctx, authed(guest, &api.ResolveRequest{Location: "./index.html", AcceptInvite: &accept}))
	if err != nil {
		t.Fatalf("Resolve with acceptance failed: %v", err)
	}
	if resp.Msg.State != "in_workspace" || resp.Msg.Role != "treasurer" {
		t.Errorf("accepted: got state=%q role=%q", resp.Msg.State, resp.Msg.Role)
	}

	members, err := c.member.ListMembers(ctx, authed(owner, &api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members.Msg.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(members.Msg.Members))
	}

	invites, err := c.member.ListInvites(ctx, authed(owner, &api.ListInvitesRequest{PendingOnly: true}))
	if err != nil {
		t.Fatalf("ListInvites failed: %v", err)
	}
	if len(invites.Msg.Invites) != 0 {
		t.Errorf("pending invites: expected none after acceptance, got %d", len(invites.Msg.Invites))
	}
}

func TestDeclinedInviteOnboards(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	if _, err := c.member.InviteMember(ctx, authed(owner, &api.InviteMemberRequest{Email: "guest@example.com", Role: "viewer"})); err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	guest := signUp(t, c, "guest@example.com", "Guest")

	decline := false
	resp, err := c.session.Resolve(ctx, authed(guest, &api.ResolveRequest{Location: "./index.html", AcceptInvite: &decline}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resp.Msg.State != "no_tenant" || resp.Msg.Destination != "./onboarding.html" {
		t.Errorf("declined: got state=%q destination=%q", resp.Msg.State, resp.Msg.Destination)
	}
}

func TestRoleGuard(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	if _, err := c.member.InviteMember(ctx, authed(owner, &api.InviteMemberRequest{Email: "viewer@example.com", Role: "viewer"})); err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	viewer := signUp(t, c, "viewer@example.com", "Viewer")
	accept := true
	if _, err := c.session.Resolve(ctx, authed(viewer, &api.ResolveRequest{AcceptInvite: &accept})); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	ws, err := c.church.GetWorkspace(ctx, authed(viewer, &api.GetWorkspaceRequest{}))
	if err != nil {
		t.Fatalf("GetWorkspace failed: %v", err)
	}
	if ws.Msg.Role != "viewer" {
		t.Errorf("role: expected viewer, got %q", ws.Msg.Role)
	}
	if slices.Contains(ws.Msg.Permissions, "finance.write") || slices.Contains(ws.Msg.Permissions, "members.manage") {
		t.Errorf("viewer permissions: got %v", ws.Msg.Permissions)
	}

	entry := api.EntryInput{Type: "income", Amount: 10, Category: "Oferta", Date: "2024-03-10"}
	_, err = c.finance.CreateEntry(ctx, authed(viewer, &api.CreateEntryRequest{Entry: entry}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.people.CreatePerson(ctx, authed(viewer, &api.CreatePersonRequest{Person: api.PersonInput{Name: "Maria"}}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.member.InviteMember(ctx, authed(viewer, &api.InviteMemberRequest{Email: "x@example.com", Role: "viewer"}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = c.church.UpdateChurch(ctx, authed(viewer, &api.UpdateChurchRequest{Name: "Renamed"}))
	assertCode(t, err, connect.CodePermissionDenied)

	if _, err := c.finance.ListEntries(ctx, authed(viewer, &api.ListEntriesRequest{})); err != nil {
		t.Errorf("viewer ListEntries failed: %v", err)
	}
	if _, err := c.dashboard.GetDashboard(ctx, authed(viewer, &api.GetDashboardRequest{})); err != nil {
		t.Errorf("viewer GetDashboard failed: %v", err)
	}
}

func TestFinanceLedger(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	for _, cat := range []api.CreateCategoryRequest{{Type: "income", Name: "Dízimo"}, {Type: "expense", Name: "Luz"}} {
		if _, err := c.category.CreateCategory(ctx, authed(owner, &cat)); err != nil {
			t.Fatalf("CreateCategory(%s) failed: %v", cat.Name, err)
		}
	}

	inputs := []api.EntryInput{
		{Type: "income", Amount: 500, Category: "dízimo", Date: "2024-03-03"},
		{Type: "income", Amount: 120.5, Category: "Unknown", Note: "culto", Date: "2024-03-10"},
		{Type: "expense", Amount: 80, Category: "Luz", Date: "2024-03-12"},
		{Type: "expense", Amount: 40, Category: "Luz", Date: "2024-02-28"},
	}
	var created []*api.Entry
	for _, in := range inputs {
		resp, err := c.finance.CreateEntry(ctx, authed(owner, &api.CreateEntryRequest{Entry: in}))
		if err != nil {
			t.Fatalf("CreateEntry(%+v) failed: %v", in, err)
		}
		created = append(created, resp.Msg.Entry)
	}
	if created[0].Category != "Dízimo" {
		t.Errorf("category: expected stored name Dízimo, got %q", created[0].Category)
	}
	if created[1].Category != "Outros" {
		t.Errorf("category: expected fallback Outros, got %q", created[1].Category)
	}

	_, err := c.finance.CreateEntry(ctx, authed(owner, &api.CreateEntryRequest{Entry: api.EntryInput{Type: "income", Amount: -1, Category: "x", Date: "2024-03-01"}}))
	assertCode(t, err, connect.CodeInvalidArgument)

	list, err := c.finance.ListEntries(ctx, authed(owner, &api.ListEntriesRequest{}))
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(list.Msg.Entries) != 3 {
		t.Fatalf("current month: expected 3 entries, got %d", len(list.Msg.Entries))
	}
	if list.Msg.Entries[0].Date != "2024-03-12" {
		t.Errorf("expected newest first, got %s", list.Msg.Entries[0].Date)
	}
	if list.Msg.Totals.Income != 620.5 || list.Msg.Totals.Expense != 80 || list.Msg.Totals.Balance != 540.5 {
		t.Errorf("totals: got %+v", list.Msg.Totals)
	}

	search, err := c.finance.ListEntries(ctx, authed(owner, &api.ListEntriesRequest{From: "2024-02-01", To: "2024-03-31", Search: "luz"}))
	if err != nil {
		t.Fatalf("ListEntries with search failed: %v", err)
	}
	if len(search.Msg.Entries) != 2 {
		t.Errorf("search: expected 2 entries, got %d", len(search.Msg.Entries))
	}

	_, err = c.finance.ListEntries(ctx, authed(owner, &api.ListEntriesRequest{From: "03/01/2024"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	updated, err := c.finance.UpdateEntry(ctx, authed(owner, &api.UpdateEntryRequest{
		ID:    created[2].ID,
		Entry: api.EntryInput{Type: "expense", Amount: 95, Category: "Luz", Date: "2024-03-12"},
	}))
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if updated.Msg.Entry.Amount != 95 {
		t.Errorf("amount: expected 95, got %v", updated.Msg.Entry.Amount)
	}

	if _, err := c.finance.DeleteEntry(ctx, authed(owner, &api.DeleteEntryRequest{ID: created[3].ID})); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	_, err = c.finance.UpdateEntry(ctx, authed(owner, &api.UpdateEntryRequest{ID: created[3].ID, Entry: inputs[3]}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCategories(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	first, err := c.category.CreateCategory(ctx, authed(owner, &api.CreateCategoryRequest{Type: "expense", Name: "Aluguel"}))
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	again, err := c.category.CreateCategory(ctx, authed(owner, &api.CreateCategoryRequest{Type: "expense", Name: "aluguel"}))
	if err != nil {
		t.Fatalf("CreateCategory repeat failed: %v", err)
	}
	if again.Msg.Category.ID != first.Msg.Category.ID {
		t.Errorf("expected repeat to return %s, got %s", first.Msg.Category.ID, again.Msg.Category.ID)
	}
	if _, err := c.category.CreateCategory(ctx, authed(owner, &api.CreateCategoryRequest{Type: "income", Name: "Oferta"})); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	_, err = c.category.CreateCategory(ctx, authed(owner, &api.CreateCategoryRequest{Type: "gift", Name: "x"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	expense, err := c.category.ListCategories(ctx, authed(owner, &api.ListCategoriesRequest{Type: "expense"}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(expense.Msg.Categories) != 1 {
		t.Errorf("expense categories: expected 1, got %d", len(expense.Msg.Categories))
	}

	if _, err := c.category.DeleteCategory(ctx, authed(owner, &api.DeleteCategoryRequest{ID: first.Msg.Category.ID})); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	all, err := c.category.ListCategories(ctx, authed(owner, &api.ListCategoriesRequest{}))
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(all.Msg.Categories) != 1 || all.Msg.Categories[0].Name != "Oferta" {
		t.Errorf("after delete: got %+v", all.Msg.Categories)
	}
}

func TestPeople(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	created, err := c.people.CreatePerson(ctx, authed(owner, &api.CreatePersonRequest{Person: api.PersonInput{
		Name:      "Maria Souza",
		BirthDate: "1990-03-20",
		Status:    "member",
	}}))
	if err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}
	if created.Msg.Person.Age == nil || *created.Msg.Person.Age != 33 {
		t.Errorf("age: expected 33, got %v", created.Msg.Person.Age)
	}

	_, err = c.people.CreatePerson(ctx, authed(owner, &api.CreatePersonRequest{Person: api.PersonInput{Name: "João", BirthDate: "20/03/1990"}}))
	assertCode(t, err, connect.CodeInvalidArgument)

	if _, err := c.people.CreatePerson(ctx, authed(owner, &api.CreatePersonRequest{Person: api.PersonInput{Name: "Ana Lima"}})); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	list, err := c.people.ListPeople(ctx, authed(owner, &api.ListPeopleRequest{Search: "souza"}))
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(list.Msg.People) != 1 {
		t.Fatalf("search: expected 1 person, got %d", len(list.Msg.People))
	}

	updated, err := c.people.UpdatePerson(ctx, authed(owner, &api.UpdatePersonRequest{
		ID:     created.Msg.Person.ID,
		Person: api.PersonInput{Name: "Maria Souza", Phone: "81 9999-0000"},
	}))
	if err != nil {
		t.Fatalf("UpdatePerson failed: %v", err)
	}
	if updated.Msg.Person.Age != nil {
		t.Errorf("expected no age without a birth date, got %d", *updated.Msg.Person.Age)
	}

	if _, err := c.people.DeletePerson(ctx, authed(owner, &api.DeletePersonRequest{ID: created.Msg.Person.ID})); err != nil {
		t.Fatalf("DeletePerson failed: %v", err)
	}
	all, err := c.people.ListPeople(ctx, authed(owner, &api.ListPeopleRequest{}))
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(all.Msg.People) != 1 {
		t.Errorf("after delete: expected 1 person, got %d", len(all.Msg.People))
	}
}

func TestDashboardAndReport(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	if _, err := c.church.UpdatePreferences(ctx, authed(owner, &api.UpdatePreferencesRequest{MonthlyTarget: 1000, Currency: "brl"})); err != nil {
		t.Fatalf("UpdatePreferences failed: %v", err)
	}
	_, err := c.church.UpdatePreferences(ctx, authed(owner, &api.UpdatePreferencesRequest{MonthlyTarget: -5}))
	assertCode(t, err, connect.CodeInvalidArgument)

	for _, in := range []api.EntryInput{
		{Type: "income", Amount: 700, Category: "Dízimo", Date: "2024-03-14"},
		{Type: "expense", Amount: 60, Category: "Luz", Note: "conta, março", Date: "2024-03-05"},
	} {
		if _, err := c.finance.CreateEntry(ctx, authed(owner, &api.CreateEntryRequest{Entry: in})); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	dash, err := c.dashboard.GetDashboard(ctx, authed(owner, &api.GetDashboardRequest{}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	d := dash.Msg.Dashboard
	if d.From != "2024-03-01" || d.To != "2024-03-31" {
		t.Errorf("month: got %s..%s", d.From, d.To)
	}
	if d.Totals.Balance != 640 || d.GoalProgress != 70 || d.Currency != "BRL" {
		t.Errorf("dashboard: balance=%v goal=%v currency=%q", d.Totals.Balance, d.GoalProgress, d.Currency)
	}
	if len(d.Series) != 31 || len(d.Latest) != 2 {
		t.Errorf("dashboard: series=%d latest=%d", len(d.Series), len(d.Latest))
	}

	rep, err := c.report.RunReport(ctx, authed(owner, &api.RunReportRequest{From: "2024-03-01", To: "2024-03-31"}))
	if err != nil {
		t.Fatalf("RunReport failed: %v", err)
	}
	if len(rep.Msg.Income) != 1 || len(rep.Msg.Expense) != 1 || len(rep.Msg.Entries) != 2 {
		t.Errorf("report: income=%d expense=%d entries=%d", len(rep.Msg.Income), len(rep.Msg.Expense), len(rep.Msg.Entries))
	}

	csv, err := c.report.ExportCSV(ctx, authed(owner, &api.ExportCSVRequest{From: "2024-03-01", To: "2024-03-31"}))
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}
	if csv.Msg.Filename != "ekkora-2024-03-01-2024-03-31.csv" {
		t.Errorf("filename: got %q", csv.Msg.Filename)
	}
	if !bytes.HasPrefix(csv.Msg.Content, []byte("date,type,category,note,amount\n")) {
		t.Errorf("csv header: got %q", csv.Msg.Content)
	}
	if !bytes.Contains(csv.Msg.Content, []byte(`"conta, março",-60.00`)) {
		t.Errorf("csv: expected quoted note and signed amount, got %q", csv.Msg.Content)
	}
}

func TestWatchEntries(t *testing.T) {
	c := setupTestServer(t)
	owner := onboardOwner(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := c.finance.WatchEntries(ctx, authed(owner, &api.WatchEntriesRequest{}))
	if err != nil {
		t.Fatalf("WatchEntries failed: %v", err)
	}
	defer stream.Close()

	if !stream.Receive() {
		t.Fatalf("expected initial snapshot: %v", stream.Err())
	}
	if n := len(stream.Msg().Entries); n != 0 {
		t.Errorf("initial snapshot: expected 0 entries, got %d", n)
	}

	entry := api.EntryInput{Type: "income", Amount: 25, Category: "Oferta", Date: "2024-03-15"}
	if _, err := c.finance.CreateEntry(ctx, authed(owner, &api.CreateEntryRequest{Entry: entry})); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	for stream.Receive() {
		msg := stream.Msg()
		if len(msg.Entries) == 1 {
			if msg.Totals.Income != 25 {
				t.Errorf("totals: expected income 25, got %v", msg.Totals.Income)
			}
			return
		}
	}
	t.Fatalf("stream ended before the new entry arrived: %v", stream.Err())
}

func TestWatchRequiresChurch(t *testing.T) {
	c := setupTestServer(t)
	token := signUp(t, c, "lonely@example.com", "Lonely")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := c.dashboard.WatchDashboard(ctx, authed(token, &api.WatchDashboardRequest{}))
	if err != nil {
		t.Fatalf("WatchDashboard failed: %v", err)
	}
	defer stream.Close()

	if stream.Receive() {
		t.Fatal("expected no snapshot for a caller without a church")
	}
	assertCode(t, stream.Err(), connect.CodeFailedPrecondition)
}

func TestRemovedMemberReturnsToOnboarding(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	owner := onboardOwner(t, c)

	if _, err := c.member.InviteMember(ctx, authed(owner, &api.InviteMemberRequest{Email: "viewer@example.com", Role: "viewer"})); err != nil {
		t.Fatalf("InviteMember failed: %v", err)
	}
	viewer := signUp(t, c, "viewer@example.com", "Viewer")
	accept := true
	resp, err := c.session.Resolve(ctx, authed(viewer, &api.ResolveRequest{AcceptInvite: &accept}))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resp.Msg.State != "in_workspace" {
		t.Fatalf("after accept: expected in_workspace, got %q", resp.Msg.State)
	}

	members, err := c.member.ListMembers(ctx, authed(owner, &api.ListMembersRequest{}))
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	var viewerUID string
	for _, m := range members.Msg.Members {
		if m.Email == "viewer@example.com" {
			viewerUID = m.UID
		}
	}
	if viewerUID == "" {
		t.Fatalf("viewer not listed: %+v", members.Msg.Members)
	}
	if _, err := c.member.RemoveMember(ctx, authed(owner, &api.RemoveMemberRequest{UID: viewerUID})); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	resp, err = c.session.Resolve(ctx, authed(viewer, &api.ResolveRequest{Location: "./dashboard.html"}))
	if err != nil {
		t.Fatalf("Resolve after removal failed: %v", err)
	}
	if resp.Msg.State != "no_tenant" || resp.Msg.Destination != "./onboarding.html" || resp.Msg.Notice != "" {
		t.Errorf("after removal: got state=%q destination=%q notice=%q", resp.Msg.State, resp.Msg.Destination, resp.Msg.Notice)
	}

	_, err = c.dashboard.GetDashboard(ctx, authed(viewer, &api.GetDashboardRequest{}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	if _, err := c.church.CreateChurch(ctx, authed(viewer, &api.CreateChurchRequest{Name: "Igreja Nova"})); err != nil {
		t.Fatalf("CreateChurch after removal failed: %v", err)
	}
	ws, err := c.church.GetWorkspace(ctx, authed(viewer, &api.GetWorkspaceRequest{}))
	if err != nil {
		t.Fatalf("GetWorkspace failed: %v", err)
	}
	if ws.Msg.Role != "admin" || ws.Msg.Church.Name != "Igreja Nova" {
		t.Errorf("new workspace: role=%q church=%+v", ws.Msg.Role, ws.Msg.Church)
	}
}
