package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/query"
	"rental_portal_backend/internal/leads/repository"
	"rental_portal_backend/internal/leads/transport"
	"rental_portal_backend/platform/apperr"

	"github.com/google/uuid"
)

var testNow = time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	repo  *fakeRepo
	cache *fakeCache
	bus   *events.InMemoryBus

	ana, bruno domain.Seller
	inboxOld   domain.Lead
	inboxNew   domain.Lead
	worked     domain.Lead
	won        domain.Lead
	actor      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ana:   domain.Seller{ID: uuid.New(), FirstName: "Ana", LastName: "López"},
		bruno: domain.Seller{ID: uuid.New(), FirstName: "Bruno", LastName: "Díaz"},
		actor: uuid.New(),
	}

	mk := func(first string, status domain.Status, seller *uuid.UUID, age time.Duration) domain.Lead {
		created := testNow.Add(-age)
		return domain.Lead{
			ID:               uuid.New(),
			FirstName:        first,
			LastName:         "Test",
			Status:           status,
			AssignedSellerID: seller,
			CreatedAt:        created,
			UpdatedAt:        created,
			Version:          1,
		}
	}
	f.inboxOld = mk("Olga", domain.StatusNewLead, nil, 5*time.Hour)
	f.inboxNew = mk("Nico", domain.StatusNewLead, nil, time.Hour)
	f.worked = mk("Wendy", domain.StatusInterested, &f.ana.ID, 72*time.Hour)
	f.won = mk("Walter", domain.StatusRentalClosed, &f.bruno.ID, 240*time.Hour)

	f.repo = &fakeRepo{
		leads:   []domain.Lead{f.inboxNew, f.inboxOld, f.worked, f.won},
		sellers: []domain.Seller{f.ana, f.bruno},
	}
	f.cache = &fakeCache{}
	f.bus = events.NewInMemoryBus(nil)
	f.svc = New(f.repo, f.bus, nil,
		WithCache(f.cache),
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
	return f
}

func assertAppErr(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	if appErr.Kind != kind || appErr.Code != code {
		t.Fatalf("got kind=%v code=%q, want kind=%v code=%q", appErr.Kind, appErr.Code, kind, code)
	}
}

// capture collects published events of one name.
type capture struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *capture) handler() events.HandlerFunc {
	return func(ctx context.Context, e events.Event) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, e)
		return nil
	}
}

func (c *capture) all() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

func TestTransitionCommitsAndPublishes(t *testing.T) {
	f := newFixture(t)
	var got capture
	f.bus.Subscribe(events.NameLeadStatusChanged, got.handler())

	resp, err := f.svc.Transition(context.Background(), f.inboxOld.ID, transport.UpdateLeadStatusRequest{Status: "cita_coordinada"}, f.actor)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	f.bus.Wait()

	if resp.Status != domain.StatusAppointmentSet || resp.StatusLabel != "Cita coordinada" {
		t.Fatalf("unexpected response status %q / %q", resp.Status, resp.StatusLabel)
	}
	if !resp.UpdatedAt.Equal(testNow) {
		t.Fatalf("updatedAt = %v, want %v", resp.UpdatedAt, testNow)
	}
	if resp.AssignedSellerID != nil {
		t.Fatalf("transition must not touch the seller")
	}

	evs := got.all()
	if len(evs) != 1 {
		t.Fatalf("expected one event, got %d", len(evs))
	}
	ev := evs[0].(events.LeadStatusChanged)
	if ev.From != "nuevo_lead" || ev.To != "cita_coordinada" || ev.Kind != string(domain.TransitionAdvance) || ev.ActorID != f.actor {
		t.Fatalf("unexpected event %+v", ev)
	}

	if actions := f.repo.actions(); len(actions) != 1 || actions[0] != repository.ActionStatusChanged {
		t.Fatalf("unexpected activity %v", actions)
	}
	if f.cache.invalidations != 1 {
		t.Fatalf("expected metrics invalidation, got %d", f.cache.invalidations)
	}
}

func TestTransitionReopensTerminalLead(t *testing.T) {
	f := newFixture(t)
	var got capture
	f.bus.Subscribe(events.NameLeadStatusChanged, got.handler())

	resp, err := f.svc.Transition(context.Background(), f.won.ID, transport.UpdateLeadStatusRequest{Status: "interesado"}, f.actor)
	if err != nil {
		t.Fatalf("terminal statuses must not block transitions: %v", err)
	}
	f.bus.Wait()

	if resp.AssignedSeller == nil || resp.AssignedSeller.FirstName != "Bruno" {
		t.Fatalf("expected seller to be kept and resolved, got %+v", resp.AssignedSeller)
	}
	if ev := got.all()[0].(events.LeadStatusChanged); ev.Kind != string(domain.TransitionReopen) {
		t.Fatalf("kind = %q, want reopen", ev.Kind)
	}
}

func TestTransitionErrors(t *testing.T) {
	cases := []struct {
		name   string
		leadID func(f *fixture) uuid.UUID
		status string
		kind   apperr.Kind
		code   string
	}{
		{"unknown status", func(f *fixture) uuid.UUID { return f.worked.ID }, "cerrado", apperr.KindValidation, CodeInvalidStatus},
		{"case matters", func(f *fixture) uuid.UUID { return f.worked.ID }, "Interesado", apperr.KindValidation, CodeInvalidStatus},
		{"missing lead", func(f *fixture) uuid.UUID { return uuid.New() }, "interesado", apperr.KindNotFound, CodeLeadNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.Transition(context.Background(), tc.leadID(f), transport.UpdateLeadStatusRequest{Status: tc.status}, f.actor)
			assertAppErr(t, err, tc.kind, tc.code)
			if f.repo.commits != 0 || len(f.repo.actions()) != 0 {
				t.Fatalf("failed transition must not write")
			}
		})
	}
}

func TestConcurrentCommitIsRejected(t *testing.T) {
	f := newFixture(t)
	f.repo.beforeCommit = func() {
		f.repo.bump(f.worked.ID, testNow.Add(-time.Minute))
	}

	_, err := f.svc.Transition(context.Background(), f.worked.ID, transport.UpdateLeadStatusRequest{Status: "oferta_enviada"}, f.actor)
	assertAppErr(t, err, apperr.KindConflict, CodeConcurrencyConflict)
	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("conflict should unwrap to the domain sentinel")
	}

	stored, _ := f.repo.GetByID(context.Background(), f.worked.ID)
	if stored.Status != domain.StatusInterested {
		t.Fatalf("losing write must not land, status=%s", stored.Status)
	}
	if len(f.repo.actions()) != 0 || f.cache.invalidations != 0 {
		t.Fatalf("losing write must have no side effects")
	}
}

func TestConcurrentCommitWithinSameInstantIsRejected(t *testing.T) {
	cases := []struct {
		name string
		run  func(f *fixture) error
	}{
		{"transition", func(f *fixture) error {
			_, err := f.svc.Transition(context.Background(), f.worked.ID, transport.UpdateLeadStatusRequest{Status: "oferta_enviada"}, f.actor)
			return err
		}},
		{"assign", func(f *fixture) error {
			_, err := f.svc.Assign(context.Background(), f.worked.ID, f.bruno.ID, f.actor)
			return err
		}},
		{"unassign", func(f *fixture) error {
			_, err := f.svc.Unassign(context.Background(), f.worked.ID, f.actor)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			// The other writer lands with the very timestamp this one read.
			f.repo.beforeCommit = func() {
				f.repo.bump(f.worked.ID, f.worked.UpdatedAt)
			}

			assertAppErr(t, tc.run(f), apperr.KindConflict, CodeConcurrencyConflict)
			if f.repo.commits != 0 {
				t.Fatalf("stale write must not land")
			}
		})
	}
}

func TestCommitBumpsVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Transition(ctx, f.worked.ID, transport.UpdateLeadStatusRequest{Status: "oferta_enviada"}, f.actor); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	if _, err := f.svc.Transition(ctx, f.worked.ID, transport.UpdateLeadStatusRequest{Status: "formato_renta_enviado"}, f.actor); err != nil {
		t.Fatalf("second transition in the same instant: %v", err)
	}

	stored, _ := f.repo.GetByID(ctx, f.worked.ID)
	if stored.Version != 3 || stored.Status != domain.StatusRentalFormSent {
		t.Fatalf("got version=%d status=%s", stored.Version, stored.Status)
	}
}

func TestAssignChecksSellerBeforeLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, uuid.New(), uuid.New(), f.actor)
	assertAppErr(t, err, apperr.KindValidation, CodeUnknownSeller)

	_, err = f.svc.Assign(ctx, uuid.New(), f.ana.ID, f.actor)
	assertAppErr(t, err, apperr.KindNotFound, CodeLeadNotFound)

	_, err = f.svc.Assign(ctx, f.inboxOld.ID, uuid.New(), f.actor)
	assertAppErr(t, err, apperr.KindValidation, CodeUnknownSeller)
	if f.repo.commits != 0 {
		t.Fatalf("rejected assignments must not commit")
	}
}

func TestAssignFromInbox(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var got capture
	f.bus.Subscribe(events.NameLeadAssigned, got.handler())

	resp, err := f.svc.Assign(ctx, f.inboxOld.ID, f.ana.ID, f.actor)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	f.bus.Wait()

	if resp.AssignedSeller == nil || resp.AssignedSeller.FullName != "Ana López" {
		t.Fatalf("unexpected seller %+v", resp.AssignedSeller)
	}
	if resp.Status != domain.StatusNewLead {
		t.Fatalf("assignment must not change status")
	}

	inbox, err := f.svc.Inbox(ctx)
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if inbox.Total != 1 || inbox.Items[0].ID != f.inboxNew.ID {
		t.Fatalf("expected only the other inbox lead, got %+v", inbox)
	}

	ev := got.all()[0].(events.LeadAssigned)
	if ev.SellerID != f.ana.ID || ev.PreviousSeller != nil {
		t.Fatalf("unexpected event %+v", ev)
	}

	// Reassignment is the same operation.
	resp, err = f.svc.Assign(ctx, f.inboxOld.ID, f.bruno.ID, f.actor)
	if err != nil || resp.AssignedSeller.FirstName != "Bruno" {
		t.Fatalf("reassign: %+v, %v", resp.AssignedSeller, err)
	}
}

func TestAssignRefreshesStaleSellerDirectory(t *testing.T) {
	f := newFixture(t)
	newcomer := domain.Seller{ID: uuid.New(), FirstName: "Carla"}
	f.cache.sellers = []domain.Seller{f.ana, f.bruno}
	f.repo.sellers = append(f.repo.sellers, newcomer)

	resp, err := f.svc.Assign(context.Background(), f.inboxNew.ID, newcomer.ID, f.actor)
	if err != nil {
		t.Fatalf("assign to new seller: %v", err)
	}
	if resp.AssignedSeller == nil || resp.AssignedSeller.FirstName != "Carla" {
		t.Fatalf("unexpected seller %+v", resp.AssignedSeller)
	}
	if len(f.cache.sellers) != 3 {
		t.Fatalf("cache should hold the refreshed directory")
	}
}

func TestUnassign(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Unassign(ctx, f.worked.ID, f.actor)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if resp.AssignedSellerID != nil || resp.Status != domain.StatusInterested {
		t.Fatalf("unexpected response %+v", resp)
	}
	if f.repo.commits != 1 {
		t.Fatalf("expected one commit, got %d", f.repo.commits)
	}

	if _, err := f.svc.Unassign(ctx, f.inboxOld.ID, f.actor); err != nil {
		t.Fatalf("unassign unowned lead: %v", err)
	}
	if f.repo.commits != 1 {
		t.Fatalf("unassigning an unowned lead must not commit")
	}

	_, err = f.svc.Unassign(ctx, uuid.New(), f.actor)
	assertAppErr(t, err, apperr.KindNotFound, CodeLeadNotFound)
}

func TestCreateLead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, transport.CreateLeadRequest{
		FirstName: " Ana ",
		LastName:  "<b>Ruiz</b>  Soto",
		Email:     " Ana@Example.COM ",
		Phone:     "+52 55 1234 5678",
		Source:    "portal",
	}, f.actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if resp.Status != domain.StatusNewLead || resp.AssignedSellerID != nil {
		t.Fatalf("new leads start unassigned in nuevo_lead, got %+v", resp)
	}
	if resp.FirstName != "Ana" || resp.LastName != "Ruiz Soto" || *resp.Email != "ana@example.com" || *resp.Phone != "+525512345678" {
		t.Fatalf("intake fields not normalised: %+v", resp)
	}
	if !resp.CreatedAt.Equal(testNow) || !resp.UpdatedAt.Equal(testNow) {
		t.Fatalf("timestamps should come from the clock")
	}

	inbox, _ := f.svc.Inbox(ctx)
	if inbox.Total != 3 {
		t.Fatalf("new lead should land in the inbox, total=%d", inbox.Total)
	}
	if actions := f.repo.actions(); len(actions) != 1 || actions[0] != repository.ActionCreated {
		t.Fatalf("unexpected activity %v", actions)
	}
}

func TestCreateLeadRejectsInvertedBudget(t *testing.T) {
	f := newFixture(t)
	lo, hi := 20000.0, 15000.0

	_, err := f.svc.Create(context.Background(), transport.CreateLeadRequest{
		FirstName: "Ana",
		Email:     "ana@example.com",
		BudgetMin: &lo,
		BudgetMax: &hi,
	}, f.actor)
	assertAppErr(t, err, apperr.KindValidation, CodeInvalidBudget)
}

func TestListUsesInjectedClock(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.List(context.Background(), transport.ListLeadsRequest{DateRange: "today"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 2 || resp.TotalPages != 1 || resp.Page != 1 {
		t.Fatalf("unexpected page %+v", resp)
	}
	if resp.Items[0].ID != f.inboxNew.ID || resp.Items[1].ID != f.inboxOld.ID {
		t.Fatalf("default sort is newest first")
	}
}

func TestListDefaultsMalformedControls(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.List(context.Background(), transport.ListLeadsRequest{
		DateRange: "fortnight",
		SortBy:    "someVeryLongUnknownSortField",
		SortOrder: "descending",
		Page:      "abc",
		PageSize:  "1e3",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 4 || resp.Page != 1 || resp.PageSize != query.DefaultPageSize || resp.TotalPages != 1 {
		t.Fatalf("unexpected page %+v", resp)
	}
	want := []uuid.UUID{f.inboxNew.ID, f.inboxOld.ID, f.worked.ID, f.won.ID}
	for i, id := range want {
		if resp.Items[i].ID != id {
			t.Fatalf("item %d: malformed controls should fall back to createdAt desc", i)
		}
	}
}

func TestListSortsBySellerWithUnassignedLast(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.List(context.Background(), transport.ListLeadsRequest{SortBy: "seller", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 4 {
		t.Fatalf("total = %d", resp.Total)
	}
	if resp.Items[0].AssignedSeller.FirstName != "Bruno" || resp.Items[1].AssignedSeller.FirstName != "Ana" {
		t.Fatalf("sellers should sort descending by first name")
	}
	if resp.Items[2].AssignedSellerID != nil || resp.Items[3].AssignedSellerID != nil {
		t.Fatalf("unassigned leads go last")
	}
}

func TestListPropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	f.repo.listErr = errBoom

	_, err := f.svc.List(context.Background(), transport.ListLeadsRequest{})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if _, ok := apperr.As(err); ok {
		t.Fatalf("store failures are internal errors")
	}
}

func TestMetricsCachedUntilCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	m, err := f.svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if m.Total != 4 || m.Unassigned != 2 || m.Completed != 1 || m.ConversionRate != 25 || m.NewToday != 2 {
		t.Fatalf("unexpected metrics %+v", m)
	}

	// A write that bypasses the service is not seen until invalidation.
	f.repo.mu.Lock()
	f.repo.leads = append(f.repo.leads, domain.Lead{ID: uuid.New(), Status: domain.StatusRentalClosed, CreatedAt: testNow, UpdatedAt: testNow})
	f.repo.mu.Unlock()

	if m, _ = f.svc.Metrics(ctx); m.Total != 4 {
		t.Fatalf("expected cached total 4, got %d", m.Total)
	}

	if _, err := f.svc.Transition(ctx, f.worked.ID, transport.UpdateLeadStatusRequest{Status: "renta_concretada"}, f.actor); err != nil {
		t.Fatalf("transition: %v", err)
	}

	m, _ = f.svc.Metrics(ctx)
	if m.Total != 5 || m.Completed != 3 || m.ConversionRate != 60 {
		t.Fatalf("expected fresh metrics after commit, got %+v", m)
	}
}

func TestMetricsSurvivesCacheFailure(t *testing.T) {
	f := newFixture(t)
	f.cache.readErr = errBoom

	m, err := f.svc.Metrics(context.Background())
	if err != nil {
		t.Fatalf("cache failures must not fail the request: %v", err)
	}
	if m.Total != 4 {
		t.Fatalf("total = %d", m.Total)
	}
}

func TestStaleInbox(t *testing.T) {
	f := newFixture(t)

	stale, err := f.svc.StaleInbox(context.Background(), 4*time.Hour)
	if err != nil {
		t.Fatalf("stale inbox: %v", err)
	}
	if len(stale) != 1 || stale[0].ID != f.inboxOld.ID {
		t.Fatalf("unexpected stale leads %+v", stale)
	}

	stale, _ = f.svc.StaleInbox(context.Background(), 0)
	if len(stale) != 2 || stale[0].ID != f.inboxOld.ID {
		t.Fatalf("expected oldest first, got %+v", stale)
	}
}

func TestSnapshotMetrics(t *testing.T) {
	f := newFixture(t)

	m, err := f.svc.SnapshotMetrics(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(f.repo.snapshots) != 1 {
		t.Fatalf("expected one persisted snapshot")
	}
	snap := f.repo.snapshots[0]
	if !snap.TakenAt.Equal(testNow) || snap.Total != m.Total || snap.StatusCounts["renta_concretada"] != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if f.cache.metrics == nil {
		t.Fatalf("snapshot should warm the cache")
	}
}

func TestStatuses(t *testing.T) {
	f := newFixture(t)

	resp := f.svc.Statuses()
	if len(resp.Items) != 14 || len(resp.Pipeline) != len(domain.PipelineOrder()) {
		t.Fatalf("unexpected registry sizes %d/%d", len(resp.Items), len(resp.Pipeline))
	}
}

func TestActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Assign(ctx, f.inboxOld.ID, f.ana.ID, f.actor); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := f.svc.Transition(ctx, f.inboxOld.ID, transport.UpdateLeadStatusRequest{Status: "opciones_enviadas"}, f.actor); err != nil {
		t.Fatalf("transition: %v", err)
	}

	resp, err := f.svc.Activity(ctx, f.inboxOld.ID, 0)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Action != repository.ActionStatusChanged {
		t.Fatalf("expected newest first, got %+v", resp.Items)
	}

	_, err = f.svc.Activity(ctx, uuid.New(), 0)
	assertAppErr(t, err, apperr.KindNotFound, CodeLeadNotFound)
}

func TestActivityLimitIsClamped(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{0, repository.DefaultActivityLimit},
		{-5, repository.DefaultActivityLimit},
		{20, 20},
		{repository.MaxActivityLimit, repository.MaxActivityLimit},
		{100000000, repository.MaxActivityLimit},
	}

	for _, tc := range cases {
		f := newFixture(t)
		if _, err := f.svc.Activity(context.Background(), f.worked.ID, tc.requested); err != nil {
			t.Fatalf("activity(%d): %v", tc.requested, err)
		}
		if f.repo.lastActivityLimit != tc.want {
			t.Fatalf("limit %d: store asked for %d, want %d", tc.requested, f.repo.lastActivityLimit, tc.want)
		}
	}
}
