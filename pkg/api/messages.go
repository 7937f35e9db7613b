package api

// AuthService

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type SignUpResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
	// Profile is nil until the first session resolution creates it.
	Profile *Profile `json:"profile,omitempty"`
}

// SessionService

type ResolveRequest struct {
	// Location is the page the client is on, e.g. "./index.html".
	Location string `json:"location"`
	// AcceptInvite answers a pending invite. Unset leaves it undecided.
	AcceptInvite *bool `json:"acceptInvite,omitempty"`
	// Hints are the client's persisted key/value hints.
	Hints map[string]string `json:"hints,omitempty"`
}

type ResolveResponse struct {
	State       string `json:"state"`
	Destination string `json:"destination,omitempty"`
	Navigated   bool   `json:"navigated"`
	// Notice is a transient message for the user.
	Notice  string            `json:"notice,omitempty"`
	Profile *Profile          `json:"profile,omitempty"`
	Invite  *Invite           `json:"invite,omitempty"`
	Church  *Church           `json:"church,omitempty"`
	Role    string            `json:"role,omitempty"`
	Hints   map[string]string `json:"hints,omitempty"`
}

// ChurchService

type CreateChurchRequest struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

type CreateChurchResponse struct {
	Church *Church `json:"church"`
}

type GetChurchRequest struct{}

type GetChurchResponse struct {
	Church *Church `json:"church"`
}

type UpdateChurchRequest struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	State string `json:"state,omitempty"`
}

type UpdateChurchResponse struct {
	Church *Church `json:"church"`
}

type UpdatePreferencesRequest struct {
	MonthlyTarget float64 `json:"monthlyTarget"`
	Currency      string  `json:"currency"`
}

type UpdatePreferencesResponse struct {
	Profile *Profile `json:"profile"`
}

type GetWorkspaceRequest struct{}

type GetWorkspaceResponse struct {
	Profile *Profile `json:"profile"`
	Church  *Church  `json:"church"`
	Role    string   `json:"role"`
	// Permissions lists the actions the role allows.
	Permissions []string `json:"permissions"`
}

// FinanceService

type CreateEntryRequest struct {
	Entry EntryInput `json:"entry"`
}

type CreateEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type UpdateEntryRequest struct {
	ID    string     `json:"id"`
	Entry EntryInput `json:"entry"`
}

type UpdateEntryResponse struct {
	Entry *Entry `json:"entry"`
}

type DeleteEntryRequest struct {
	ID string `json:"id"`
}

type DeleteEntryResponse struct{}

type ListEntriesRequest struct {
	// From and To default to the current month.
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Search string `json:"search,omitempty"`
}

type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
	Totals  Totals  `json:"totals"`
}

type WatchEntriesRequest struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Search string `json:"search,omitempty"`
}

type WatchEntriesResponse struct {
	Entries []Entry `json:"entries"`
	Totals  Totals  `json:"totals"`
}

// CategoryService

type CreateCategoryRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type CreateCategoryResponse struct {
	Category *Category `json:"category"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

type DeleteCategoryResponse struct{}

type ListCategoriesRequest struct {
	// Type restricts the list to income or expense; empty lists both.
	Type string `json:"type,omitempty"`
}

type ListCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type WatchCategoriesRequest struct {
	Type string `json:"type,omitempty"`
}

type WatchCategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// MemberService

type InviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type InviteMemberResponse struct {
	Invite *Invite `json:"invite"`
}

type RemoveMemberRequest struct {
	UID string `json:"uid"`
}

type RemoveMemberResponse struct{}

type ListMembersRequest struct{}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

type WatchMembersRequest struct{}

type WatchMembersResponse struct {
	Members []Member `json:"members"`
}

type ListInvitesRequest struct {
	PendingOnly bool `json:"pendingOnly,omitempty"`
}

type ListInvitesResponse struct {
	Invites []Invite `json:"invites"`
}

// PeopleService

type CreatePersonRequest struct {
	Person PersonInput `json:"person"`
}

type CreatePersonResponse struct {
	Person *Person `json:"person"`
}

type UpdatePersonRequest struct {
	ID     string      `json:"id"`
	Person PersonInput `json:"person"`
}

type UpdatePersonResponse struct {
	Person *Person `json:"person"`
}

type DeletePersonRequest struct {
	ID string `json:"id"`
}

type DeletePersonResponse struct{}

type ListPeopleRequest struct {
	Search string `json:"search,omitempty"`
}

type ListPeopleResponse struct {
	People []Person `json:"people"`
}

type WatchPeopleRequest struct {
	Search string `json:"search,omitempty"`
}

type WatchPeopleResponse struct {
	People []Person `json:"people"`
}

// DashboardService

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Dashboard *Dashboard `json:"dashboard"`
}

type WatchDashboardRequest struct{}

type WatchDashboardResponse struct {
	Dashboard *Dashboard `json:"dashboard"`
}

// ReportService

type RunReportRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type RunReportResponse struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Totals  Totals          `json:"totals"`
	Income  []CategoryTotal `json:"income"`
	Expense []CategoryTotal `json:"expense"`
	Entries []Entry         `json:"entries"`
}

type ExportCSVRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type ExportCSVResponse struct {
	Filename string `json:"filename"`
	// Content is the CSV document, base64 encoded on the wire.
	Content []byte `json:"content"`
}
