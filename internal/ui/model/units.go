package model

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/dustin/go-humanize"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/ui/form"
	"github.com/proptic/proptic/internal/ui/table"
	"github.com/proptic/proptic/internal/uiutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	unitModalID  = "unit"
	deleteUnitID = "delete-unit"
)

type (
	unitsLoadedMsg struct {
		fetchStatus
		units    []api.PropertyUnit
		projects []api.PropertyProject
	}
	unitSavedMsg struct {
		fetchStatus
		unit    api.PropertyUnit
		created bool
	}
	unitDeletedMsg struct {
		fetchStatus
		name string
	}
	// deleteUnitMsg is the confirmation of a unit deletion.
	deleteUnitMsg struct {
		id, name string
	}
)

type unitsPage struct {
	*pageCtx

	table    *table.Model[api.PropertyUnit]
	projects []api.PropertyProject
	modal    *dialog.CreateModal
	state    dialog.ModalState
	// filled is the id of the unit whose values the form holds.
	filled   string
	seq      uint64
	offline  bool
	cachedAt time.Time
}

var _ page = (*unitsPage)(nil)

func newUnitsPage(ctx *pageCtx) *unitsPage {
	p := &unitsPage{pageCtx: ctx, state: dialog.ModalClosed{}}

	currency := ctx.currency()
	columns := []table.Column[api.PropertyUnit]{
		{Key: table.ExpanderKey, Width: 3},
		{
			Key:      table.Field("unit_name"),
			Label:    "Unit Name",
			Sortable: true,
			Value:    func(u api.PropertyUnit) any { return u.UnitName },
		},
		{
			Key:      table.Field("price"),
			Label:    "Monthly Rent Fee",
			Sortable: true,
			Value:    func(u api.PropertyUnit) any { return float64(u.Price) },
			Render:   func(u api.PropertyUnit) string { return formatPrice(currency, u.Price) },
		},
		{
			Key:      table.Field("property_project_name"),
			Label:    "Property Project",
			Sortable: true,
			Value:    func(u api.PropertyUnit) any { return u.PropertyProjectName },
		},
		{
			Key:      table.Field("created_at"),
			Label:    "Created",
			Sortable: true,
			Width:    16,
			Value:    func(u api.PropertyUnit) any { return u.CreatedAt.Unix() },
			Render: func(u api.PropertyUnit) string {
				if u.CreatedAt.IsZero() {
					return ""
				}
				return humanize.Time(u.CreatedAt)
			},
		},
		{
			Key:    table.ActionsKey,
			Label:  "Actions",
			Width:  18,
			Render: func(api.PropertyUnit) string { return "e edit · d delete" },
		},
	}

	p.table = table.New(ctx.com.Styles, columns, table.Options[api.PropertyUnit]{
		Title:           "Rental Units",
		InitialPageSize: ctx.pageSize(),
		Searchable:      true,
		EmptyMessage:    "No rental units yet",
		ItemID:          func(u api.PropertyUnit) string { return u.ID },
		OnNewItem:       func() tea.Cmd { return p.openModal(nil) },
		NewItemLabel:    "New Unit",
		ExpandedRender:  renderAmenities,
		RowActions: []table.RowAction[api.PropertyUnit]{
			{Binding: ctx.keyMap.Units.Edit, Run: func(u api.PropertyUnit) tea.Cmd { return p.openModal(&u) }},
			{Binding: ctx.keyMap.Units.Delete, Run: p.confirmDelete},
			{Binding: ctx.keyMap.Units.CopyID, Run: func(u api.PropertyUnit) tea.Cmd {
				return copyToClipboard("Unit ID", u.ID)
			}},
		},
	})

	f := form.New(ctx.com.Styles, unitSchema,
		form.Select("property_project", "Property project"),
		form.Text("unit_name", "Unit name", "A-101"),
		form.Select("unit_type", "Unit type",
			form.Option{Value: "apartment", Label: "Apartment"},
			form.Option{Value: "villa", Label: "Villa"},
			form.Option{Value: "office", Label: "Office"},
			form.Option{Value: "shop", Label: "Shop"},
		),
		form.Select("contract_type", "Contract type",
			form.Option{Value: "rent", Label: "Rent"},
			form.Option{Value: "sale", Label: "Sale"},
			form.Option{Value: "lease", Label: "Lease"},
		),
		form.Select("purpose", "Purpose",
			form.Option{Value: "residential", Label: "Residential"},
			form.Option{Value: "commercial", Label: "Commercial"},
		),
		form.Number("price", "Monthly rent ("+currency+")", "1200"),
		form.Checkbox("available", "Available"),
		form.Checkbox("is_listed_for_rent", "Listed for rent"),
		form.Checkbox("is_listed_for_sale", "Listed for sale"),
		form.Checkbox("wifi", "Wifi"),
		form.Checkbox("private_pool", "Private pool"),
		form.Checkbox("gym", "Gym"),
	)
	p.modal = dialog.NewCreateModal(ctx.com, unitModalID, "New Unit", f, dialog.ModalOptions{
		SubmitLabel: "Save Unit",
	})
	return p
}

func (p *unitsPage) ID() pageID    { return pageUnits }
func (p *unitsPage) Title() string { return "Rental Units" }

func (p *unitsPage) Capturing() bool { return p.table.Searching() }

func (p *unitsPage) Load() tea.Cmd {
	p.seq++
	seq := p.seq
	p.table.SetLoading(true)
	client := p.com.Client
	owner := p.cacheOwner()
	return func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()

		msg := unitsLoadedMsg{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			msg.units, err = client.AllUnits(gctx)
			return err
		})
		g.Go(func() (err error) {
			msg.projects, err = client.Projects(gctx)
			return err
		})
		err := g.Wait()
		msg.fetchStatus = statusOf(err)
		msg.seq = seq

		cctx := context.WithoutCancel(ctx)
		switch {
		case err == nil:
			p.snapshot(cctx, owner, cache.KeyUnits, msg.units)
			p.snapshot(cctx, owner, cache.KeyProjects, msg.projects)
		case msg.offline:
			msg.units, msg.projects = nil, nil
			msg.cachedAt = p.restore(cctx, owner, cache.KeyUnits, &msg.units)
			p.restore(cctx, owner, cache.KeyProjects, &msg.projects)
		}
		return msg
	}
}

func (p *unitsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case unitsLoadedMsg:
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
		p.setProjects(msg.projects)
		p.table.SetData(msg.units)
		if msg.offline {
			return uiutil.ReportWarn("Offline: showing units from " + humanize.Time(msg.cachedAt))
		}
		return nil

	case unitSavedMsg:
		if msg.err != nil {
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
		p.filled = ""
		verb := "updated"
		if msg.created {
			verb = "created"
		}
		return tea.Batch(p.Load(), uiutil.ReportSuccess(fmt.Sprintf("Unit %q %s", msg.unit.UnitName, verb)))

	case unitDeletedMsg:
		if msg.err != nil {
			return reportUnlessUnauthorized(msg.err)
		}
		return tea.Batch(p.Load(), uiutil.ReportSuccess(fmt.Sprintf("Unit %q deleted", msg.name)))

	case tea.KeyPressMsg, tea.PasteMsg:
		return p.table.Update(msg)
	}
	return nil
}

func (p *unitsPage) HandleAction(action dialog.Action) tea.Cmd {
	switch action := action.(type) {
	case dialog.ActionSubmit:
		if action.DialogID != unitModalID {
			return nil
		}
		open, _ := p.state.(dialog.ModalOpen)
		p.modal.SetSubmitting(true)
		return p.save(open.Editing, unitInput(action.Values))
	case dialog.ActionRequestClose:
		if action.DialogID == unitModalID {
			p.closeModal()
		}
	case deleteUnitMsg:
		p.dialog.CloseDialog(deleteUnitID)
		return p.delete(action.id, action.name)
	}
	return nil
}

// openModal shows the unit form, filled from u when editing. Values typed
// into a cancelled create form are kept.
func (p *unitsPage) openModal(u *api.PropertyUnit) tea.Cmd {
	f := p.modal.Form()
	switch {
	case u != nil:
		f.Reset()
		f.SetValues(unitValues(*u))
		p.filled = u.ID
		p.modal.SetTitle("Edit " + u.UnitName)
		p.state = dialog.ModalOpen{Editing: u.ID}
	default:
		if p.filled != "" {
			f.Reset()
			p.filled = ""
		}
		p.modal.SetTitle("New Unit")
		p.state = dialog.ModalOpen{}
	}
	p.modal.SetMessage("")
	p.dialog.OpenDialog(p.modal)
	return nil
}

func (p *unitsPage) closeModal() {
	p.state = dialog.ModalClosed{}
	p.dialog.CloseDialog(unitModalID)
}

func (p *unitsPage) confirmDelete(u api.PropertyUnit) tea.Cmd {
	p.dialog.OpenDialog(dialog.NewConfirm(p.com, deleteUnitID,
		fmt.Sprintf("Delete unit %q?", u.UnitName),
		deleteUnitMsg{id: u.ID, name: u.UnitName},
	))
	return nil
}

func (p *unitsPage) save(id string, in api.UnitInput) tea.Cmd {
	client := p.com.Client
	return func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()
		var (
			u   api.PropertyUnit
			err error
		)
		if id == "" {
			u, err = client.CreateUnit(ctx, in)
		} else {
			u, err = client.UpdateUnit(ctx, id, in)
		}
		if err == nil && u.UnitName == "" {
			u.UnitName = in.UnitName
		}
		return unitSavedMsg{fetchStatus: statusOf(err), unit: u, created: id == ""}
	}
}

func (p *unitsPage) delete(id, name string) tea.Cmd {
	client := p.com.Client
	return func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()
		err := client.DeleteUnit(ctx, id)
		return unitDeletedMsg{fetchStatus: statusOf(err), name: name}
	}
}

func (p *unitsPage) setProjects(projects []api.PropertyProject) {
	p.projects = projects
	opts := make([]form.Option, 0, len(projects))
	for _, pr := range projects {
		opts = append(opts, form.Option{Value: pr.ID, Label: pr.Name})
	}
	if field := p.modal.Form().Field("property_project"); field != nil {
		field.SetOptions(opts)
	}
}

func (p *unitsPage) View(width, height int) string {
	p.table.SetWidth(width)
	return p.table.View()
}

func (p *unitsPage) ShortHelp() []key.Binding {
	return p.table.ShortHelp()
}

func (p *unitsPage) FullHelp() [][]key.Binding {
	return append(p.table.FullHelp(), []key.Binding{
		p.keyMap.Units.Edit,
		p.keyMap.Units.Delete,
		p.keyMap.Units.CopyID,
	})
}

// formatPrice renders an amount like "USD 1,200" or "USD 1,200.5".
func formatPrice(currency string, price api.Decimal) string {
	return currency + " " + humanize.CommafWithDigits(float64(price), 2)
}

var amenityTitle = cases.Title(language.English)

func renderAmenities(u api.PropertyUnit) string {
	keys := slices.Sorted(maps.Keys(u.Amenities))
	var have []string
	for _, k := range keys {
		if on, _ := u.Amenities[k].(bool); on {
			have = append(have, amenityTitle.String(strings.ReplaceAll(k, "_", " ")))
		}
	}
	if len(have) == 0 {
		return "Amenities: none"
	}
	return "Amenities: " + strings.Join(have, ", ")
}
