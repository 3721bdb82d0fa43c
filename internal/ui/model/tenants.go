package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/ui/form"
	"github.com/proptic/proptic/internal/ui/table"
	"github.com/proptic/proptic/internal/uiutil"
	"golang.org/x/sync/errgroup"
)

const (
	tenantModalID = "tenant"
	unitPickerID  = "tenant-unit"
)

type (
	tenantsLoadedMsg struct {
		fetchStatus
		tenants []api.Tenant
		units   []api.PropertyUnit
	}
	tenantSavedMsg struct {
		fetchStatus
		tenant api.User
		// registered is set when the user was created but the tenancy was
		// not.
		registered bool
	}
)

type tenantsPage struct {
	*pageCtx

	table    *table.Model[api.Tenant]
	units    []api.PropertyUnit
	modal    *dialog.CreateModal
	state    dialog.ModalState
	seq      uint64
	offline  bool
	cachedAt time.Time
}

var _ page = (*tenantsPage)(nil)

func newTenantsPage(ctx *pageCtx) *tenantsPage {
	p := &tenantsPage{pageCtx: ctx, state: dialog.ModalClosed{}}

	text := func(get func(api.Tenant) string) func(api.Tenant) any {
		return func(t api.Tenant) any { return get(t) }
	}
	columns := []table.Column[api.Tenant]{
		{Key: table.ExpanderKey, Width: 3},
		{
			Key:    table.Field("profile"),
			Label:  "Profile",
			Width:  8,
			Render: func(t api.Tenant) string { return common.Initials(t.FirstName, t.LastName) },
		},
		{Key: table.Field("first_name"), Label: "First Name", Sortable: true, Value: text(func(t api.Tenant) string { return t.FirstName })},
		{Key: table.Field("last_name"), Label: "Last Name", Sortable: true, Value: text(func(t api.Tenant) string { return t.LastName })},
		{Key: table.Field("document"), Label: "Passport/National ID", Value: text(tenantDocument)},
		{Key: table.Field("property_unit_name"), Label: "Unit", Sortable: true, Value: text(func(t api.Tenant) string { return t.UnitName })},
		{Key: table.Field("tenancy_start_date"), Label: "Start", Sortable: true, Width: 12, Value: text(func(t api.Tenant) string { return t.StartDate })},
		{Key: table.Field("tenancy_end_date"), Label: "End", Sortable: true, Width: 12, Value: text(func(t api.Tenant) string { return t.EndDate })},
	}

	p.table = table.New(ctx.com.Styles, columns, table.Options[api.Tenant]{
		Title:           "Tenants",
		InitialPageSize: ctx.pageSize(),
		Searchable:      true,
		EmptyMessage:    "No tenants yet",
		ItemID:          func(t api.Tenant) string { return t.ID },
		OnNewItem:       p.openPicker,
		NewItemLabel:    "New Tenant",
		ExpandedRender:  renderTenancy,
		RowActions: []table.RowAction[api.Tenant]{
			{Binding: ctx.keyMap.Tenants.CopyID, Run: func(t api.Tenant) tea.Cmd {
				return copyToClipboard("Tenant ID", t.ID)
			}},
		},
	})

	f := form.New(ctx.com.Styles, tenantSchema,
		form.Text("first_name", "First name", ""),
		form.Text("last_name", "Last name", ""),
		form.Text("email", "Email", "tenant@example.com"),
		form.Select("gender", "Gender",
			form.Option{Value: "male", Label: "Male"},
			form.Option{Value: "female", Label: "Female"},
			form.Option{Value: "other", Label: "Other"},
		),
		form.Select("id_type", "ID type",
			form.Option{Value: idTypePassport, Label: "Passport"},
			form.Option{Value: idTypeNational, Label: "National ID"},
		),
		form.Text("id_number", "ID number", ""),
		form.Select("property_unit", "Rental unit"),
		form.Date("tenancy_start_date", "Tenancy start"),
		form.Date("tenancy_end_date", "Tenancy end"),
	)
	p.modal = dialog.NewCreateModal(ctx.com, tenantModalID, "New Tenant", f, dialog.ModalOptions{
		SubmitLabel: "Create Tenant",
		BusyLabel:   "Creating...",
	})
	return p
}

func (p *tenantsPage) ID() pageID    { return pageTenants }
func (p *tenantsPage) Title() string { return "Tenants" }

func (p *tenantsPage) Capturing() bool { return p.table.Searching() }

func (p *tenantsPage) Load() tea.Cmd {
	p.seq++
	seq := p.seq
	p.table.SetLoading(true)
	client := p.com.Client
	owner := p.cacheOwner()
	return func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()

		msg := tenantsLoadedMsg{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			users, err := client.Tenants(gctx)
			for _, u := range users {
				msg.tenants = append(msg.tenants, u.Tenant())
			}
			return err
		})
		g.Go(func() (err error) {
			msg.units, err = client.AllUnits(gctx)
			return err
		})
		err := g.Wait()
		msg.fetchStatus = statusOf(err)
		msg.seq = seq

		cctx := context.WithoutCancel(ctx)
		switch {
		case err == nil:
			p.snapshot(cctx, owner, cache.KeyTenants, msg.tenants)
			p.snapshot(cctx, owner, cache.KeyUnits, msg.units)
		case msg.offline:
			msg.tenants, msg.units = nil, nil
			msg.cachedAt = p.restore(cctx, owner, cache.KeyTenants, &msg.tenants)
			p.restore(cctx, owner, cache.KeyUnits, &msg.units)
		}
		return msg
	}
}

func (p *tenantsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tenantsLoadedMsg:
		if msg.seq != p.seq {
			return nil
		}
		p.table.SetLoading(false)
		p.offline, p.cachedAt = msg.offline, msg.cachedAt
		if msg.err != nil && !msg.offline {
			return reportUnlessUnauthorized(msg.err)
		}
		if msg.err != nil && msg.cachedAt.IsZero() {
			return nil
		}
		p.setUnits(msg.units)
		p.table.SetData(msg.tenants)
		if msg.offline {
			return uiutil.ReportWarn("Offline: showing tenants from " + humanize.Time(msg.cachedAt))
		}
		return nil

	case tenantSavedMsg:
		if msg.err != nil && !msg.registered {
			p.modal.SetSubmitting(false)
			p.modal.SetMessage(uiutil.ErrorText(msg.err))
			var apiErr *api.Error
			if errors.As(msg.err, &apiErr) {
				p.modal.Form().SetErrors(firstErrors(apiErr.Fields))
			}
			return nil
		}
		p.closeModal()
		p.modal.SetSubmitting(false)
		p.modal.Form().Reset()
		name := strings.TrimSpace(msg.tenant.FirstName + " " + msg.tenant.LastName)
		if msg.err != nil {
			return tea.Batch(p.Load(), uiutil.ReportWarn(fmt.Sprintf(
				"%s was registered but the tenancy failed: %s", name, uiutil.ErrorText(msg.err),
			)))
		}
		return tea.Batch(p.Load(), uiutil.ReportSuccess(name+" added as a tenant"))

	case tea.KeyPressMsg, tea.PasteMsg:
		return p.table.Update(msg)
	}
	return nil
}

func (p *tenantsPage) HandleAction(action dialog.Action) tea.Cmd {
	switch action := action.(type) {
	case dialog.ActionPick:
		if action.DialogID != unitPickerID {
			return nil
		}
		p.dialog.CloseDialog(unitPickerID)
		return p.openModal(action.Item.ID)
	case dialog.ActionSubmit:
		if action.DialogID != tenantModalID {
			return nil
		}
		p.modal.SetSubmitting(true)
		return p.save(action.Values)
	case dialog.ActionRequestClose:
		if action.DialogID == tenantModalID {
			p.closeModal()
		}
	}
	return nil
}

// openPicker asks for the rental unit of a new tenant.
func (p *tenantsPage) openPicker() tea.Cmd {
	if len(p.units) == 0 {
		return uiutil.ReportWarn("Create a rental unit before adding tenants")
	}
	items := make([]dialog.PickerItem, 0, len(p.units))
	for _, u := range p.units {
		items = append(items, dialog.PickerItem{
			ID:      u.ID,
			Title:   u.UnitName,
			Detail:  u.PropertyProjectName,
			Updated: u.CreatedAt,
		})
	}
	selected := p.modal.Form().Values()["property_unit"]
	p.dialog.OpenDialog(dialog.NewPicker(p.com, unitPickerID, "Choose Rental Unit", items, selected))
	return nil
}

func (p *tenantsPage) openModal(unitID string) tea.Cmd {
	p.modal.Form().SetValues(form.Values{"property_unit": unitID})
	p.modal.SetMessage("")
	p.state = dialog.ModalOpen{}
	p.dialog.OpenDialog(p.modal)
	return nil
}

func (p *tenantsPage) closeModal() {
	p.state = dialog.ModalClosed{}
	p.dialog.CloseDialog(tenantModalID)
}

// save registers the tenant and then assigns the unit.
func (p *tenantsPage) save(v form.Values) tea.Cmd {
	client := p.com.Client
	in := registerInput(v)
	tenancy := api.Tenancy{
		PropertyUnitID: v["property_unit"],
		StartDate:      strings.TrimSpace(v["tenancy_start_date"]),
		EndDate:        strings.TrimSpace(v["tenancy_end_date"]),
	}
	return func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()
		res, err := client.Register(ctx, in)
		if err != nil {
			return tenantSavedMsg{fetchStatus: statusOf(err)}
		}
		if res.User.FirstName == "" {
			res.User.FirstName, res.User.LastName = in.FirstName, in.LastName
		}
		tenancy.TenantID = res.User.ID
		if _, err := client.CreateTenancy(ctx, tenancy); err != nil {
			return tenantSavedMsg{fetchStatus: statusOf(err), tenant: res.User, registered: true}
		}
		return tenantSavedMsg{tenant: res.User}
	}
}

func (p *tenantsPage) setUnits(units []api.PropertyUnit) {
	p.units = units
	opts := make([]form.Option, 0, len(units))
	for _, u := range units {
		opts = append(opts, form.Option{Value: u.ID, Label: u.UnitName})
	}
	if field := p.modal.Form().Field("property_unit"); field != nil {
		field.SetOptions(opts)
	}
}

func (p *tenantsPage) View(width, height int) string {
	p.table.SetWidth(width)
	return p.table.View()
}

func (p *tenantsPage) ShortHelp() []key.Binding {
	return p.table.ShortHelp()
}

func (p *tenantsPage) FullHelp() [][]key.Binding {
	return append(p.table.FullHelp(), []key.Binding{p.keyMap.Tenants.CopyID})
}

func tenantDocument(t api.Tenant) string {
	if t.PassportNumber != "" {
		return t.PassportNumber
	}
	return t.NationalID
}

func renderTenancy(t api.Tenant) string {
	lines := []string{"Email: " + t.Email}
	if t.Gender != "" {
		lines = append(lines, "Gender: "+t.Gender)
	}
	if t.UnitID == "" {
		return strings.Join(append(lines, "No active tenancy"), "\n")
	}
	lines = append(lines, fmt.Sprintf("Tenancy: %s from %s to %s", t.UnitName, t.StartDate, t.EndDate))
	if end, err := form.ParseDate(t.EndDate); err == nil {
		lines = append(lines, "Ends "+humanize.Time(end))
	}
	return strings.Join(lines, "\n")
}
