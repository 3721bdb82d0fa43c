package model

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/session"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/ui/styles"
	"github.com/proptic/proptic/internal/uiutil"
	"github.com/stretchr/testify/require"
)

const projectID = "0b7e4a52-6f0a-4c1a-9d7e-2f1d8c3b5a90"

// fakeAPI serves a small in-memory platform and records mutations.
type fakeAPI struct {
	mu       sync.Mutex
	units    []api.PropertyUnit
	requests []string
	// reject answers every mutation with this status and body.
	rejectStatus int
	rejectBody   string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	if r.Method != http.MethodGet && f.rejectStatus != 0 {
		w.WriteHeader(f.rejectStatus)
		_, _ = io.WriteString(w, f.rejectBody)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/properties/units/":
		_ = json.NewEncoder(w).Encode(api.Page[api.PropertyUnit]{Count: len(f.units), Results: f.units})
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/properties/projects/":
		_ = json.NewEncoder(w).Encode(api.Page[api.PropertyProject]{
			Count:   1,
			Results: []api.PropertyProject{{ID: projectID, Name: "Palm Court"}},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/tenants/":
		_, _ = io.WriteString(w, `[{"id":"t1","first_name":"Ann","last_name":"Lee","tenancy":null}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/properties/units/create":
		var in api.UnitInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		u := api.PropertyUnit{ID: "u-new", UnitName: in.UnitName, Price: api.Decimal(in.Price)}
		f.units = append(f.units, u)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(u)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func testCommon(t *testing.T, h http.Handler) *common.Common {
	t.Helper()
	st := styles.DefaultStyles()
	com := &common.Common{Styles: &st, Session: session.New()}
	url := "http://127.0.0.1:1/api/v1"
	if h != nil {
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)
		url = srv.URL + "/api/v1"
	}
	client, err := api.New(url, time.Second, com.Session)
	require.NoError(t, err)
	com.Client = client
	return com
}

func testPageCtx(com *common.Common) *pageCtx {
	km := DefaultKeyMap()
	return &pageCtx{com: com, keyMap: &km, dialog: dialog.NewOverlay()}
}

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// run executes cmd and feeds its messages back into update until nothing is
// left. Batches are flattened; ticks are not run.
func run(cmd tea.Cmd, update func(tea.Msg) tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			seen = append(seen, msg)
			queue = append(queue, update(msg))
		}
	}
	return seen
}

func loadUnits(t *testing.T, p *unitsPage) {
	t.Helper()
	msg := p.Load()()
	loaded, ok := msg.(unitsLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	p.Update(msg)
}

func TestUnitsCreateFlow(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{}
	ctx := testPageCtx(testCommon(t, fake))
	p := newUnitsPage(ctx)
	loadUnits(t, p)
	require.Empty(t, p.table.Data())

	p.openModal(nil)
	require.True(t, ctx.dialog.IsFrontDialog(unitModalID))
	require.Equal(t, dialog.ModalOpen{}, p.state)

	values := validUnit()
	values["property_project"] = projectID
	p.modal.Form().SetValues(values)

	action := ctx.dialog.Update(press("enter"))
	submit, ok := action.(dialog.ActionSubmit)
	require.True(t, ok)
	require.Equal(t, unitModalID, submit.DialogID)

	cmd := p.HandleAction(action)
	require.True(t, p.modal.Submitting())

	var reports []uiutil.InfoMsg
	run(cmd, func(msg tea.Msg) tea.Cmd {
		if info, ok := msg.(uiutil.InfoMsg); ok {
			reports = append(reports, info)
			return nil
		}
		return p.Update(msg)
	})

	require.False(t, ctx.dialog.ContainsDialog(unitModalID))
	require.Equal(t, dialog.ModalClosed{}, p.state)
	require.False(t, p.modal.Submitting())
	require.Equal(t, "", p.modal.Form().Values()["unit_name"])
	require.Len(t, p.table.Data(), 1)
	require.Contains(t, fake.Requests(), "POST /api/v1/properties/units/create")
	require.Contains(t, reports, uiutil.InfoMsg{Type: uiutil.InfoTypeSuccess, Msg: `Unit "A-101" created`})
}

func TestUnitsCreateRejected(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{
		rejectStatus: http.StatusBadRequest,
		rejectBody:   `{"unit_name":["unit with this name already exists."]}`,
	}
	ctx := testPageCtx(testCommon(t, fake))
	p := newUnitsPage(ctx)
	loadUnits(t, p)

	p.openModal(nil)
	values := validUnit()
	values["property_project"] = projectID
	p.modal.Form().SetValues(values)

	cmd := p.HandleAction(ctx.dialog.Update(press("enter")))
	p.Update(cmd())

	require.True(t, ctx.dialog.IsFrontDialog(unitModalID))
	require.True(t, dialog.IsOpen(p.state))
	require.False(t, p.modal.Submitting())
	require.Equal(t, "unit with this name already exists.", p.modal.Form().Errors()["unit_name"])
	require.Equal(t, "A-101", p.modal.Form().Values()["unit_name"])
}

func TestUnitsInvalidFormNotSubmitted(t *testing.T) {
	t.Parallel()

	ctx := testPageCtx(testCommon(t, &fakeAPI{}))
	p := newUnitsPage(ctx)
	p.openModal(nil)

	require.Nil(t, ctx.dialog.Update(press("enter")))
	require.False(t, p.modal.Submitting())
	require.Contains(t, p.modal.Form().Errors(), "unit_name")
}

func TestUnitsEscRequestsClose(t *testing.T) {
	t.Parallel()

	ctx := testPageCtx(testCommon(t, &fakeAPI{}))
	p := newUnitsPage(ctx)
	p.openModal(nil)
	p.modal.Form().SetValues(map[string]string{"unit_name": "draft"})

	p.HandleAction(ctx.dialog.Update(press("esc")))
	require.False(t, ctx.dialog.HasDialogs())
	require.Equal(t, dialog.ModalClosed{}, p.state)

	// A cancelled create keeps what was typed.
	p.openModal(nil)
	require.Equal(t, "draft", p.modal.Form().Values()["unit_name"])

	// Editing replaces it, and creating afterwards starts empty.
	p.closeModal()
	p.openModal(&api.PropertyUnit{ID: "u1", UnitName: "B-2", Price: 900})
	require.Equal(t, dialog.ModalOpen{Editing: "u1"}, p.state)
	require.Equal(t, "B-2", p.modal.Form().Values()["unit_name"])
	p.closeModal()
	p.openModal(nil)
	require.Equal(t, "", p.modal.Form().Values()["unit_name"])
}

func TestUnitsDeleteFlow(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{units: []api.PropertyUnit{{ID: "u1", UnitName: "A-1"}}}
	ctx := testPageCtx(testCommon(t, fake))
	p := newUnitsPage(ctx)
	loadUnits(t, p)
	require.Len(t, p.table.Data(), 1)

	require.Nil(t, p.Update(press("d")))
	require.True(t, ctx.dialog.IsFrontDialog(deleteUnitID))

	action := ctx.dialog.Update(press("y"))
	require.Equal(t, deleteUnitMsg{id: "u1", name: "A-1"}, action)

	msg := p.HandleAction(action)()
	require.False(t, ctx.dialog.HasDialogs())
	deleted, ok := msg.(unitDeletedMsg)
	require.True(t, ok)
	require.NoError(t, deleted.err)
	require.Contains(t, fake.Requests(), "DELETE /api/v1/properties/units/u1/")
}

func TestUnitsOfflineFallback(t *testing.T) {
	t.Parallel()

	store, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// Fill the cache from a reachable API.
	online := testCommon(t, &fakeAPI{units: []api.PropertyUnit{{ID: "u1", UnitName: "A-1"}}})
	online.Cache = store
	loadUnits(t, newUnitsPage(testPageCtx(online)))

	offline := testCommon(t, nil)
	offline.Cache = store
	p := newUnitsPage(testPageCtx(offline))

	msg := p.Load()()
	loaded := msg.(unitsLoadedMsg)
	require.True(t, loaded.offline)
	require.False(t, loaded.cachedAt.IsZero())

	cmd := p.Update(msg)
	require.True(t, p.offline)
	require.False(t, p.table.Loading())
	require.Equal(t, []api.PropertyUnit{{ID: "u1", UnitName: "A-1"}}, p.table.Data())
	info := cmd().(uiutil.InfoMsg)
	require.Equal(t, uiutil.InfoTypeWarn, info.Type)
}

func TestUnitsStaleResponseDropped(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{units: []api.PropertyUnit{{ID: "u1", UnitName: "A-1"}}}
	p := newUnitsPage(testPageCtx(testCommon(t, fake)))

	first := p.Load()
	second := p.Load()
	stale := first()
	p.Update(stale)
	require.True(t, p.table.Loading())
	require.Empty(t, p.table.Data())

	p.Update(second())
	require.False(t, p.table.Loading())
	require.Len(t, p.table.Data(), 1)
}

func TestTenantsPickerOpensModal(t *testing.T) {
	t.Parallel()

	fake := &fakeAPI{units: []api.PropertyUnit{{ID: "u1", UnitName: "A-1"}, {ID: "u2", UnitName: "B-7"}}}
	ctx := testPageCtx(testCommon(t, fake))
	p := newTenantsPage(ctx)
	p.Update(p.Load()())
	require.Equal(t, []api.Tenant{{ID: "t1", FirstName: "Ann", LastName: "Lee"}}, p.table.Data())

	p.openPicker()
	require.True(t, ctx.dialog.IsFrontDialog(unitPickerID))
	for _, r := range "B-7" {
		ctx.dialog.Update(press(string(r)))
	}
	action := ctx.dialog.Update(press("enter"))
	pick, ok := action.(dialog.ActionPick)
	require.True(t, ok)
	require.Equal(t, "u2", pick.Item.ID)

	p.HandleAction(action)
	require.False(t, ctx.dialog.ContainsDialog(unitPickerID))
	require.True(t, ctx.dialog.IsFrontDialog(tenantModalID))
	require.Equal(t, "u2", p.modal.Form().Values()["property_unit"])
}

func TestTenantsPickerNeedsUnits(t *testing.T) {
	t.Parallel()

	ctx := testPageCtx(testCommon(t, &fakeAPI{}))
	p := newTenantsPage(ctx)
	info := p.openPicker()().(uiutil.InfoMsg)
	require.Equal(t, uiutil.InfoTypeWarn, info.Type)
	require.False(t, ctx.dialog.HasDialogs())
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	units := []api.PropertyUnit{
		{ID: "u1", IsListedForRent: true},
		{ID: "u2", IsListedForSale: true},
		{ID: "u3", IsListedForRent: true},
		{ID: "u4"},
	}
	tenants := []api.Tenant{
		{ID: "t1", UnitID: "u1", StartDate: "2025-06-10"},
		{ID: "t2", UnitID: "u1", StartDate: "2025-04-01"},
		{ID: "t3", UnitID: "u3", StartDate: "2024-01-01"},
		{ID: "t4"},
	}
	m := computeMetrics(units, tenants)
	require.Equal(t, metrics{Units: 4, ListedForRent: 2, ListedForSale: 1, Tenants: 4, Occupancy: 0.5}, m)
	require.Zero(t, computeMetrics(nil, tenants).Occupancy)

	now := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	months := tenanciesPerMonth(tenants, now, 3)
	require.Len(t, months, 3)
	require.Equal(t, time.April, months[0].Month.Month())
	require.Equal(t, []int{1, 0, 1}, []int{months[0].Count, months[1].Count, months[2].Count})
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	require.Equal(t, "USD 1,200", formatPrice("USD", 1200))
	require.Equal(t, "EUR 1,234,567.5", formatPrice("EUR", 1234567.5))
	require.Equal(t, "Amenities: Private Pool, Wifi", renderAmenities(api.PropertyUnit{
		Amenities: map[string]any{"wifi": true, "private_pool": true, "gym": false},
	}))
	require.Equal(t, "Amenities: none", renderAmenities(api.PropertyUnit{}))
}

func TestBackOnlineBanner(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, nil))
	require.Nil(t, m.handleConnectivity(fetchStatus{}))
	require.False(t, m.banner)

	m.handleConnectivity(fetchStatus{offline: true})
	require.False(t, m.online)

	require.NotNil(t, m.handleConnectivity(fetchStatus{}))
	require.True(t, m.online)
	require.True(t, m.banner)
	stale := bannerExpiredMsg{gen: m.bannerGen}

	// Going offline and back again restarts the banner.
	m.handleConnectivity(fetchStatus{offline: true})
	m.handleConnectivity(fetchStatus{})
	m.Update(stale)
	require.True(t, m.banner)

	m.Update(bannerExpiredMsg{gen: m.bannerGen})
	require.False(t, m.banner)
}

func TestStatusExpires(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, nil))
	m.Update(uiutil.InfoMsg{Type: uiutil.InfoTypeError, Msg: "boom"})
	first := m.statusGen
	m.Update(uiutil.InfoMsg{Type: uiutil.InfoTypeInfo, Msg: "hello"})

	m.Update(statusExpiredMsg{gen: first})
	require.NotNil(t, m.status)
	require.Contains(t, ansi.Strip(m.statusView(40)), "hello")

	m.Update(statusExpiredMsg{gen: m.statusGen})
	require.Nil(t, m.status)
}

func profileWithRoles(roles ...string) api.Profile {
	p := api.Profile{User: api.User{ID: "me", FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}}
	for _, r := range roles {
		p.User.Roles = append(p.User.Roles, api.Role{Name: r})
	}
	return p
}

func TestSignInSingleRole(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, &fakeAPI{}))
	m.Update(noStoredTokenMsg{})
	require.Equal(t, uiLogin, m.state)

	m.Update(signedInMsg{token: "tok", profile: profileWithRoles(api.RoleManager), restored: true})
	require.Equal(t, uiDashboard, m.state)
	require.Equal(t, api.RoleManager, m.com.Session.Role())
	require.Equal(t, "tok", m.com.Session.Token())
	require.Len(t, m.pages, 3)
	require.Equal(t, pageHome, m.active)

	m.Update(press("tab"))
	require.Equal(t, pageTenants, m.active)
}

func TestSignInSeveralRoles(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, &fakeAPI{}))
	m.Update(signedInMsg{token: "tok", profile: profileWithRoles(api.RoleAdmin, api.RoleManager), restored: true})
	require.Equal(t, uiSelectRole, m.state)
	require.True(t, m.dialog.IsFrontDialog(rolePickerID))

	m.Update(press("down"))
	m.Update(press("enter"))
	require.Equal(t, uiDashboard, m.state)
	require.False(t, m.dialog.HasDialogs())
}

func TestSignInFailure(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, nil))
	m.Update(noStoredTokenMsg{})
	m.Update(signedInMsg{fetchStatus: statusOf(&api.Error{Status: 400, Message: "Invalid credentials"})})
	require.Equal(t, uiLogin, m.state)
	require.Equal(t, "Invalid credentials", m.login.message)
	require.False(t, m.com.Session.SignedIn())
}

func TestUnauthorizedSignsOut(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, &fakeAPI{}))
	m.Update(signedInMsg{token: "tok", profile: profileWithRoles(api.RoleManager), restored: true})
	require.Equal(t, uiDashboard, m.state)

	m.Update(unitsLoadedMsg{fetchStatus: statusOf(&api.Error{Status: http.StatusUnauthorized, Message: "expired"})})
	require.Equal(t, uiLogin, m.state)
	require.False(t, m.com.Session.SignedIn())
	require.Nil(t, m.pages)
	require.NotEmpty(t, m.login.message)
}

func TestLogoutConfirm(t *testing.T) {
	t.Parallel()

	m := New(testCommon(t, &fakeAPI{}))
	m.Update(signedInMsg{token: "tok", profile: profileWithRoles(api.RoleManager), restored: true})

	m.Update(tea.KeyPressMsg{Code: 'o', Mod: tea.ModCtrl})
	require.True(t, m.dialog.IsFrontDialog(logoutID))

	m.Update(press("y"))
	require.Equal(t, uiLogin, m.state)
	require.False(t, m.dialog.HasDialogs())
	require.False(t, m.com.Session.SignedIn())
}

// gatedAPI holds unit list requests until release is closed.
type gatedAPI struct {
	*fakeAPI
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/v1/properties/units/" {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	g.fakeAPI.ServeHTTP(w, r)
}

func TestUnitsLoadAcrossSignOutKeepsCacheClean(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, err := cache.Open(ctx, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	gate := &gatedAPI{
		fakeAPI: &fakeAPI{units: []api.PropertyUnit{{ID: "u1", UnitName: "Alice A-1"}}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	com := testCommon(t, gate)
	com.Cache = store
	store.SetOwner("alice")
	p := newUnitsPage(testPageCtx(com))

	load := p.Load()
	done := make(chan tea.Msg, 1)
	go func() { done <- load() }()
	<-gate.started

	store.SetOwner("")
	require.NoError(t, store.Clear(ctx))
	store.SetOwner("bob")
	close(gate.release)

	select {
	case msg := <-done:
		loaded := msg.(unitsLoadedMsg)
		require.NoError(t, loaded.err)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}

	var units []api.PropertyUnit
	_, err = store.Get(ctx, "bob", cache.KeyUnits, &units)
	require.ErrorIs(t, err, cache.ErrMiss)
	_, err = store.Get(ctx, "alice", cache.KeyUnits, &units)
	require.ErrorIs(t, err, cache.ErrMiss)
}
