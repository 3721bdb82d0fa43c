package model

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/proptic/proptic/internal/ui/common"
)

const brand = "PROPTIC"

// SidebarModel lists the dashboard pages and tracks the selected one.
type SidebarModel struct {
	com *common.Common

	// width of the sidebar.
	width int

	items    []sidebarItem
	selected int
}

type sidebarItem struct {
	id    pageID
	title string
}

// NewSidebarModel creates a new SidebarModel instance.
func NewSidebarModel(com *common.Common) *SidebarModel {
	return &SidebarModel{
		com: com,
		items: []sidebarItem{
			{id: pageHome, title: "Dashboard"},
			{id: pageTenants, title: "Tenants"},
			{id: pageUnits, title: "Rental Units"},
		},
	}
}

// Selected returns the selected page.
func (m *SidebarModel) Selected() pageID {
	return m.items[m.selected].id
}

// Select selects the given page.
func (m *SidebarModel) Select(id pageID) {
	for i, it := range m.items {
		if it.id == id {
			m.selected = i
			return
		}
	}
}

// Move moves the selection by delta, wrapping around.
func (m *SidebarModel) Move(delta int) pageID {
	n := len(m.items)
	m.selected = ((m.selected+delta)%n + n) % n
	return m.Selected()
}

// View renders the sidebar model as a string.
func (m *SidebarModel) View(height int) string {
	t := m.com.Styles
	inner := max(0, m.width-t.Sidebar.View.GetHorizontalFrameSize())

	blocks := []string{t.Sidebar.Brand.Render(brand)}
	for i, it := range m.items {
		style := t.Sidebar.Item
		if i == m.selected {
			style = t.Sidebar.SelectedItem
		}
		title := ansi.Truncate(it.title, max(0, inner-style.GetHorizontalFrameSize()), "…")
		blocks = append(blocks, style.Width(inner).Render(title))
	}

	if role := m.com.Session.RoleLabel(); role != "" {
		blocks = append(blocks, "", t.Subtle.Render(ansi.Truncate(role, inner, "…")))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	if pad := height - lipgloss.Height(content); pad > 0 {
		content += strings.Repeat("\n", pad)
	}
	return t.Sidebar.View.Width(m.width).Height(height).Render(content)
}

// SetWidth sets the width of the sidebar.
func (m *SidebarModel) SetWidth(width int) {
	m.width = width
}
