package service

import (
	"time"

	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/identity"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/workspace"
	"github.com/mmynk/ekkora/pkg/api"
)

func userToAPI(id *identity.Identity) *api.User {
	if id == nil {
		return nil
	}
	return &api.User{UID: id.UID, Email: id.NormalizedEmail(), DisplayName: id.DisplayName}
}

func profileToAPI(p *models.UserProfile) *api.Profile {
	if p == nil {
		return nil
	}
	return &api.Profile{
		UID:           p.UID,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		ChurchID:      p.ChurchID,
		MonthlyTarget: p.MonthlyTarget,
		Currency:      p.CurrencyOrDefault(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func churchToAPI(c *models.Church) *api.Church {
	if c == nil {
		return nil
	}
	return &api.Church{
		ID:        c.ID,
		Name:      c.Name,
		City:      c.City,
		State:     c.State,
		OwnerUID:  c.OwnerUID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		UpdatedBy: c.UpdatedBy,
	}
}

func memberToAPI(m models.Membership) api.Member {
	return api.Member{
		UID:       m.UID,
		ChurchID:  m.ChurchID,
		Role:      string(m.Role),
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

func membersToAPI(members []models.Membership) []api.Member {
	out := make([]api.Member, 0, len(members))
	for _, m := range members {
		out = append(out, memberToAPI(m))
	}
	return out
}

func inviteToAPI(inv *models.Invite) *api.Invite {
	if inv == nil {
		return nil
	}
	return &api.Invite{
		Email:         inv.Email,
		ChurchID:      inv.ChurchID,
		Role:          string(inv.Role),
		Status:        string(inv.Status),
		InvitedByUID:  inv.InvitedByUID,
		AcceptedByUID: inv.AcceptedByUID,
		CreatedAt:     inv.CreatedAt,
		AcceptedAt:    inv.AcceptedAt,
	}
}

func invitesToAPI(invites []models.Invite) []api.Invite {
	out := make([]api.Invite, 0, len(invites))
	for i := range invites {
		out = append(out, *inviteToAPI(&invites[i]))
	}
	return out
}

// entryToAPI renders the entry's calendar day in UTC, the zone it is stored in.
func entryToAPI(e models.FinanceEntry) api.Entry {
	return api.Entry{
		ID:           e.ID,
		Type:         string(e.Type),
		Amount:       e.Amount,
		Category:     e.Category,
		Note:         e.Note,
		Date:         calculator.DayKey(e.Date, time.UTC),
		CreatedByUID: e.CreatedByUID,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func entriesToAPI(entries []models.FinanceEntry) []api.Entry {
	out := make([]api.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryToAPI(e))
	}
	return out
}

func entryInput(in api.EntryInput) workspace.EntryInput {
	return workspace.EntryInput{
		Type:     in.Type,
		Amount:   in.Amount,
		Category: in.Category,
		Note:     in.Note,
		Date:     in.Date,
	}
}

func categoryToAPI(c models.Category) api.Category {
	return api.Category{
		ID:           c.ID,
		Type:         string(c.Type),
		Name:         c.Name,
		CreatedByUID: c.CreatedByUID,
		CreatedAt:    c.CreatedAt,
	}
}

func categoriesToAPI(cats []models.Category) []api.Category {
	out := make([]api.Category, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryToAPI(c))
	}
	return out
}

func personToAPI(p models.Person, now time.Time) api.Person {
	out := api.Person{
		ID:          p.ID,
		Name:        p.Name,
		BirthDate:   p.BirthDate,
		Phone:       p.Phone,
		Email:       p.Email,
		BaptismDate: p.BaptismDate,
		Status:      p.Status,
		Address:     p.Address,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if age := p.Age(now); age >= 0 {
		out.Age = &age
	}
	return out
}

func peopleToAPI(people []models.Person, now time.Time) []api.Person {
	out := make([]api.Person, 0, len(people))
	for _, p := range people {
		out = append(out, personToAPI(p, now))
	}
	return out
}

func personInput(in api.PersonInput) workspace.PersonInput {
	return workspace.PersonInput{
		Name:        in.Name,
		BirthDate:   in.BirthDate,
		Phone:       in.Phone,
		Email:       in.Email,
		BaptismDate: in.BaptismDate,
		Status:      in.Status,
		Address:     in.Address,
		Notes:       in.Notes,
	}
}

func totalsToAPI(t calculator.Totals) api.Totals {
	return api.Totals{
		Income:       t.Income,
		Expense:      t.Expense,
		Balance:      t.Balance,
		IncomeCount:  t.IncomeCount,
		ExpenseCount: t.ExpenseCount,
	}
}

func categoryTotalsToAPI(totals []calculator.CategoryTotal) []api.CategoryTotal {
	out := make([]api.CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, api.CategoryTotal{Name: ct.Name, Total: ct.Total, Count: ct.Count})
	}
	return out
}

func dashboardToAPI(d *workspace.Dashboard) *api.Dashboard {
	if d == nil {
		return nil
	}
	loc := d.Month.From.Location()
	series := make([]api.DailyPoint, 0, len(d.Series))
	for _, p := range d.Series {
		series = append(series, api.DailyPoint{
			Day:     p.Day,
			Label:   p.Label,
			Income:  p.Income,
			Expense: p.Expense,
			Net:     p.Net,
			Balance: p.Balance,
		})
	}
	return &api.Dashboard{
		From:          calculator.DayKey(d.Month.From, loc),
		To:            calculator.DayKey(d.Month.To, loc),
		Totals:        totalsToAPI(d.Totals),
		Average7:      d.Average7,
		Series:        series,
		TopCategories: categoryTotalsToAPI(d.TopCategories),
		Latest:        entriesToAPI(d.Latest),
		MonthlyTarget: d.MonthlyTarget,
		GoalProgress:  d.GoalProgress,
		Currency:      d.Currency,
		Labels: api.DashboardLabels{
			Income:        d.Labels.Income,
			Expense:       d.Labels.Expense,
			Balance:       d.Labels.Balance,
			Average7:      d.Labels.Average7,
			MonthlyTarget: d.Labels.MonthlyTarget,
		},
	}
}
