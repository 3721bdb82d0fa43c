package model

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"
	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/cache"
	"github.com/proptic/proptic/internal/ui/common"
	"github.com/proptic/proptic/internal/ui/dialog"
	"github.com/proptic/proptic/internal/ui/form"
	"golang.org/x/sync/errgroup"
)

// chartMonths is the number of months shown in the tenancy chart.
const chartMonths = 6

type homeLoadedMsg struct {
	fetchStatus
	units   []api.PropertyUnit
	tenants []api.Tenant
}

// metrics are the figures of the dashboard home.
type metrics struct {
	Units         int
	ListedForRent int
	ListedForSale int
	Tenants       int
	// Occupancy is the share of units with an active tenancy, 0 to 1.
	Occupancy float64
}

type monthCount struct {
	Month time.Time
	Count int
}

func computeMetrics(units []api.PropertyUnit, tenants []api.Tenant) metrics {
	m := metrics{Units: len(units), Tenants: len(tenants)}
	for _, u := range units {
		if u.IsListedForRent {
			m.ListedForRent++
		}
		if u.IsListedForSale {
			m.ListedForSale++
		}
	}
	occupied := map[string]struct{}{}
	for _, t := range tenants {
		if t.UnitID != "" {
			occupied[t.UnitID] = struct{}{}
		}
	}
	if len(units) > 0 {
		m.Occupancy = min(1, float64(len(occupied))/float64(len(units)))
	}
	return m
}

// tenanciesPerMonth counts the tenancies started in each of the n months up
// to and including the month of now.
func tenanciesPerMonth(tenants []api.Tenant, now time.Time, n int) []monthCount {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	out := make([]monthCount, n)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0)
	}
	for _, t := range tenants {
		start, err := form.ParseDate(t.StartDate)
		if err != nil {
			continue
		}
		i := (start.Year()-first.Year())*12 + int(start.Month()) - int(first.Month())
		if i >= 0 && i < n {
			out[i].Count++
		}
	}
	return out
}

type homePage struct {
	*pageCtx

	spinner  spinner.Model
	loading  bool
	seq      uint64
	metrics  metrics
	months   []monthCount
	offline  bool
	cachedAt time.Time
	now      func() time.Time
}

var _ page = (*homePage)(nil)

func newHomePage(ctx *pageCtx) *homePage {
	return &homePage{
		pageCtx: ctx,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(ctx.com.Styles.Subtle),
		),
		now: time.Now,
	}
}

func (p *homePage) ID() pageID      { return pageHome }
func (p *homePage) Title() string   { return "Dashboard" }
func (p *homePage) Capturing() bool { return false }

func (p *homePage) Load() tea.Cmd {
	p.seq++
	seq := p.seq
	p.loading = true
	client := p.com.Client
	owner := p.cacheOwner()
	fetch := func() tea.Msg {
		ctx, cancel := p.requestCtx()
		defer cancel()

		msg := homeLoadedMsg{}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			msg.units, err = client.AllUnits(gctx)
			return err
		})
		g.Go(func() error {
			users, err := client.Tenants(gctx)
			for _, u := range users {
				msg.tenants = append(msg.tenants, u.Tenant())
			}
			return err
		})
		err := g.Wait()
		msg.fetchStatus = statusOf(err)
		msg.seq = seq

		cctx := context.WithoutCancel(ctx)
		switch {
		case err == nil:
			p.snapshot(cctx, owner, cache.KeyUnits, msg.units)
			p.snapshot(cctx, owner, cache.KeyTenants, msg.tenants)
		case msg.offline:
			msg.units, msg.tenants = nil, nil
			msg.cachedAt = p.restore(cctx, owner, cache.KeyUnits, &msg.units)
			at := p.restore(cctx, owner, cache.KeyTenants, &msg.tenants)
			if msg.cachedAt.IsZero() || (!at.IsZero() && at.Before(msg.cachedAt)) {
				msg.cachedAt = at
			}
		}
		return msg
	}
	return tea.Batch(fetch, p.spinner.Tick)
}

func (p *homePage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		if msg.seq != p.seq {
			return nil
		}
		p.loading = false
		p.offline, p.cachedAt = msg.offline, msg.cachedAt
		if msg.err != nil && (!msg.offline || msg.cachedAt.IsZero()) {
			return reportUnlessUnauthorized(msg.err)
		}
		p.metrics = computeMetrics(msg.units, msg.tenants)
		p.months = tenanciesPerMonth(msg.tenants, p.now(), chartMonths)
	case spinner.TickMsg:
		if !p.loading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (p *homePage) HandleAction(dialog.Action) tea.Cmd { return nil }

func (p *homePage) View(width, height int) string {
	t := p.com.Styles
	title := common.Section(t, "Overview", width)
	if p.loading {
		title = common.Section(t, "Overview "+p.spinner.View(), width)
	}

	m := p.metrics
	cards := []struct{ title, value string }{
		{"Rental Units", strconv.Itoa(m.Units)},
		{"For Rent", strconv.Itoa(m.ListedForRent)},
		{"For Sale", strconv.Itoa(m.ListedForSale)},
		{"Tenants", strconv.Itoa(m.Tenants)},
		{"Occupancy", fmt.Sprintf("%.0f%%", m.Occupancy*100)},
	}
	cardWidth := max(14, width/len(cards)-1)
	views := make([]string, 0, len(cards))
	for _, c := range cards {
		views = append(views, t.Dashboard.Card.Width(cardWidth).Render(
			t.Dashboard.CardTitle.Render(c.title)+"\n"+t.Dashboard.CardValue.Render(c.value),
		))
	}

	blocks := []string{
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, views...),
		"",
		common.Section(t, "Tenancies started per month", width),
		p.chartView(width),
	}
	if p.offline && !p.cachedAt.IsZero() {
		blocks = append(blocks, "", t.Subtle.Render("Offline data from "+humanize.Time(p.cachedAt)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (p *homePage) chartView(width int) string {
	t := p.com.Styles
	if len(p.months) == 0 {
		return t.Subtle.Render("No data")
	}
	peak := 0
	for _, mc := range p.months {
		peak = max(peak, mc.Count)
	}
	const labelWidth = 9
	barWidth := max(1, width-labelWidth-6)

	var b strings.Builder
	for i, mc := range p.months {
		if i > 0 {
			b.WriteByte('\n')
		}
		n := 0
		if peak > 0 {
			n = mc.Count * barWidth / peak
		}
		label := t.Dashboard.BarLabel.Width(labelWidth).Render(mc.Month.Format("Jan 06"))
		b.WriteString(label)
		b.WriteString(t.Dashboard.Bar.Render(strings.Repeat("█", n)))
		b.WriteString(" " + strconv.Itoa(mc.Count))
	}
	return b.String()
}

func (p *homePage) ShortHelp() []key.Binding {
	return []key.Binding{p.keyMap.Refresh}
}

func (p *homePage) FullHelp() [][]key.Binding {
	return [][]key.Binding{p.ShortHelp()}
}
