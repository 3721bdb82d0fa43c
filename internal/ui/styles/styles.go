package styles

import (
	"image/color"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

const (
	CheckIcon   string = "✓"
	ErrorIcon   string = "×"
	WarningIcon string = "⚠"
	InfoIcon    string = "ⓘ"
	SpinnerIcon string = "..."
	LoadingIcon string = "⟳"
	OnlineIcon  string = "●"

	BorderThin  string = "│"
	BorderThick string = "▌"

	SectionSeparator string = "─"
)

type Styles struct {
	WindowTooSmall lipgloss.Style

	// Reusable text styles
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style

	// Tags
	TagBase    lipgloss.Style
	TagError   lipgloss.Style
	TagInfo    lipgloss.Style
	TagSuccess lipgloss.Style
	TagWarn    lipgloss.Style

	// Connectivity indicators
	ItemOfflineIcon lipgloss.Style
	ItemBusyIcon    lipgloss.Style
	ItemErrorIcon   lipgloss.Style
	ItemOnlineIcon  lipgloss.Style

	// Inputs
	TextInput textinput.Styles

	// Help
	Help help.Styles

	// Buttons
	ButtonFocus    lipgloss.Style
	ButtonBlur     lipgloss.Style
	ButtonDisabled lipgloss.Style

	// Borders
	BorderFocus lipgloss.Style
	BorderBlur  lipgloss.Style

	// Background
	Background color.Color

	// Section Title
	Section struct {
		Title lipgloss.Style
		Line  lipgloss.Style
	}

	// Header of the dashboard shell
	Header struct {
		Title   lipgloss.Style
		Role    lipgloss.Style
		Avatar  lipgloss.Style
		Online  lipgloss.Style
		Offline lipgloss.Style
	}

	// Sidebar navigation
	Sidebar struct {
		View         lipgloss.Style
		Brand        lipgloss.Style
		Item         lipgloss.Style
		SelectedItem lipgloss.Style
	}

	// Status line
	Status struct {
		Info    lipgloss.Style
		Success lipgloss.Style
		Warn    lipgloss.Style
		Error   lipgloss.Style
		Message lipgloss.Style
	}

	// Dashboard home
	Dashboard struct {
		Card      lipgloss.Style
		CardTitle lipgloss.Style
		CardValue lipgloss.Style
		Bar       lipgloss.Style
		BarLabel  lipgloss.Style
	}

	// Login and role selection screens
	Login struct {
		View     lipgloss.Style
		Title    lipgloss.Style
		Subtitle lipgloss.Style
	}

	// Forms
	Form struct {
		Label        lipgloss.Style
		FocusedLabel lipgloss.Style
		Error        lipgloss.Style
		Option       lipgloss.Style
		ActiveOption lipgloss.Style
		Checkbox     lipgloss.Style
	}

	// Tables
	Table struct {
		Title           lipgloss.Style
		NewItem         lipgloss.Style
		NewItemDisabled lipgloss.Style
		Header          lipgloss.Style
		HeaderFocused   lipgloss.Style
		Rule            lipgloss.Style
		Cell            lipgloss.Style
		SelectedCell    lipgloss.Style
		Expanded        lipgloss.Style
		Empty           lipgloss.Style
		Loading         lipgloss.Style
		Footer          lipgloss.Style
		PageSize        lipgloss.Style
		PageSizeActive  lipgloss.Style
		Control         lipgloss.Style
		ControlDisabled lipgloss.Style
		Caption         lipgloss.Style
	}

	// Dialogs
	Dialog struct {
		Title        lipgloss.Style
		View         lipgloss.Style
		HelpView     lipgloss.Style
		Help         help.Styles
		InputPrompt  lipgloss.Style
		List         lipgloss.Style
		NormalItem   lipgloss.Style
		SelectedItem lipgloss.Style
		Message      lipgloss.Style
	}
}

func DefaultStyles() Styles {
	var (
		primary   = charmtone.Charple
		secondary = charmtone.Dolly
		tertiary  = charmtone.Bok

		// Backgrounds
		bgBase        = charmtone.Pepper
		bgBaseLighter = charmtone.BBQ
		bgSubtle      = charmtone.Charcoal
		bgOverlay     = charmtone.Iron

		// Foregrounds
		fgBase      = charmtone.Ash
		fgMuted     = charmtone.Squid
		fgHalfMuted = charmtone.Smoke
		fgSubtle    = charmtone.Oyster
		fgSelected  = charmtone.Salt

		// Borders
		border      = charmtone.Charcoal
		borderFocus = charmtone.Charple

		// Status
		warning = charmtone.Zest
		info    = charmtone.Malibu

		// Colors
		white = charmtone.Butter

		blueLight = charmtone.Sardine

		green     = charmtone.Julep
		greenDark = charmtone.Guac

		red     = charmtone.Coral
		redDark = charmtone.Sriracha
	)

	base := lipgloss.NewStyle().Foreground(fgBase)

	s := Styles{}

	s.Background = bgBase

	s.TextInput = textinput.Styles{
		Focused: textinput.StyleState{
			Text:        base,
			Placeholder: base.Foreground(fgSubtle),
			Prompt:      base.Foreground(tertiary),
			Suggestion:  base.Foreground(fgSubtle),
		},
		Blurred: textinput.StyleState{
			Text:        base.Foreground(fgMuted),
			Placeholder: base.Foreground(fgSubtle),
			Prompt:      base.Foreground(fgMuted),
			Suggestion:  base.Foreground(fgSubtle),
		},
		Cursor: textinput.CursorStyle{
			Color: secondary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}

	s.Help = help.Styles{
		ShortKey:       base.Foreground(fgMuted),
		ShortDesc:      base.Foreground(fgSubtle),
		ShortSeparator: base.Foreground(border),
		Ellipsis:       base.Foreground(border),
		FullKey:        base.Foreground(fgMuted),
		FullDesc:       base.Foreground(fgSubtle),
		FullSeparator:  base.Foreground(border),
	}

	s.Base = lipgloss.NewStyle().Foreground(fgBase)
	s.Muted = lipgloss.NewStyle().Foreground(fgMuted)
	s.Subtle = lipgloss.NewStyle().Foreground(fgSubtle)

	s.WindowTooSmall = s.Muted

	s.TagBase = lipgloss.NewStyle().Padding(0, 1).Foreground(white)
	s.TagError = s.TagBase.Background(redDark)
	s.TagInfo = s.TagBase.Background(blueLight)
	s.TagSuccess = s.TagBase.Background(greenDark)
	s.TagWarn = s.TagBase.Foreground(bgBase).Background(warning)

	s.ItemOfflineIcon = lipgloss.NewStyle().Foreground(charmtone.Squid).SetString(OnlineIcon)
	s.ItemBusyIcon = s.ItemOfflineIcon.Foreground(charmtone.Citron)
	s.ItemErrorIcon = s.ItemOfflineIcon.Foreground(charmtone.Coral)
	s.ItemOnlineIcon = s.ItemOfflineIcon.Foreground(charmtone.Guac)

	s.ButtonFocus = lipgloss.NewStyle().Foreground(white).Background(secondary).Padding(0, 2)
	s.ButtonBlur = s.Base.Background(bgSubtle).Padding(0, 2)
	s.ButtonDisabled = s.Muted.Background(bgBaseLighter).Padding(0, 2)

	s.BorderFocus = lipgloss.NewStyle().BorderForeground(borderFocus).Border(lipgloss.RoundedBorder()).Padding(1, 2)
	s.BorderBlur = s.BorderFocus.BorderForeground(border)

	s.Section.Title = s.Subtle
	s.Section.Line = s.Base.Foreground(charmtone.Charcoal)

	s.Header.Title = s.Base.Foreground(primary).Bold(true)
	s.Header.Role = s.Subtle
	s.Header.Avatar = lipgloss.NewStyle().Foreground(white).Background(primary).Padding(0, 1).Bold(true)
	s.Header.Online = s.TagSuccess
	s.Header.Offline = s.TagError

	s.Sidebar.View = lipgloss.NewStyle().
		Padding(1, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(border)
	s.Sidebar.Brand = s.Base.Foreground(secondary).Bold(true).MarginBottom(1)
	s.Sidebar.Item = s.Muted.PaddingLeft(1)
	s.Sidebar.SelectedItem = lipgloss.NewStyle().Foreground(fgSelected).Background(primary).PaddingLeft(1)

	s.Status.Info = s.TagInfo.SetString("INFO")
	s.Status.Success = s.TagSuccess.SetString("OKAY!")
	s.Status.Warn = s.TagWarn.SetString("WARNING")
	s.Status.Error = s.TagError.SetString("ERROR")
	s.Status.Message = s.Base.Foreground(fgHalfMuted).PaddingLeft(1)

	s.Dashboard.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
	s.Dashboard.CardTitle = s.Subtle
	s.Dashboard.CardValue = s.Base.Foreground(fgSelected).Bold(true)
	s.Dashboard.Bar = lipgloss.NewStyle().Foreground(primary)
	s.Dashboard.BarLabel = s.Muted

	s.Login.View = s.BorderFocus
	s.Login.Title = s.Base.Foreground(primary).Bold(true)
	s.Login.Subtitle = s.Subtle

	s.Form.Label = s.Muted
	s.Form.FocusedLabel = s.Base.Foreground(secondary)
	s.Form.Error = s.Base.Foreground(red)
	s.Form.Option = s.Muted.Padding(0, 1)
	s.Form.ActiveOption = lipgloss.NewStyle().Foreground(fgSelected).Background(primary).Padding(0, 1)
	s.Form.Checkbox = s.Base.Foreground(green)

	s.Table.Title = s.Base.Bold(true)
	s.Table.NewItem = s.ButtonFocus
	s.Table.NewItemDisabled = s.ButtonDisabled
	s.Table.Header = s.Subtle.Bold(true).Padding(0, 1)
	s.Table.HeaderFocused = s.Table.Header.Foreground(secondary).Underline(true)
	s.Table.Rule = s.Section.Line
	s.Table.Cell = s.Base.Padding(0, 1)
	s.Table.SelectedCell = s.Table.Cell.Foreground(fgSelected).Background(bgOverlay)
	s.Table.Expanded = s.Muted.Background(bgBaseLighter).Padding(0, 2)
	s.Table.Empty = s.Muted.Padding(1, 0)
	s.Table.Loading = s.Muted.Padding(1, 0)
	s.Table.Footer = s.Muted
	s.Table.PageSize = s.Subtle
	s.Table.PageSizeActive = s.Base.Foreground(secondary).Bold(true)
	s.Table.Control = s.Base
	s.Table.ControlDisabled = s.Subtle.Faint(true)
	s.Table.Caption = s.Subtle

	s.Dialog.Title = s.Base.Foreground(primary).Padding(0, 1)
	s.Dialog.View = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderFocus).
		Padding(1, 2)
	s.Dialog.HelpView = lipgloss.NewStyle().Padding(0, 1)
	s.Dialog.Help = s.Help
	s.Dialog.Help.ShortKey = base.Foreground(fgHalfMuted)
	s.Dialog.InputPrompt = lipgloss.NewStyle().Margin(0, 1)
	s.Dialog.List = lipgloss.NewStyle().Margin(0, 0, 0, 1)
	s.Dialog.NormalItem = s.Base.Padding(0, 1)
	s.Dialog.SelectedItem = s.Dialog.NormalItem.Foreground(white).Background(primary)
	s.Dialog.Message = s.Base.Foreground(info)

	return s
}

// DialogHelpStyles returns the help styles used inside dialogs.
func (s *Styles) DialogHelpStyles() help.Styles {
	return s.Dialog.Help
}
