// Package uiutil provides helpers for reporting status from commands.
package uiutil

import (
	"errors"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultTTL is how long a status message stays visible.
const DefaultTTL = 5 * time.Second

func CmdHandler(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

// ReportError logs err and shows it in the status line.
func ReportError(err error) tea.Cmd {
	slog.Error("Error reported", "error", err)
	return CmdHandler(InfoMsg{
		Type: InfoTypeError,
		Msg:  ErrorText(err),
	})
}

// ErrorText prefers the user facing message of errors that carry one.
func ErrorText(err error) string {
	var u interface{ UserMessage() string }
	if errors.As(err, &u) {
		return u.UserMessage()
	}
	return err.Error()
}

type InfoType int

const (
	InfoTypeInfo InfoType = iota
	InfoTypeSuccess
	InfoTypeWarn
	InfoTypeError
)

func ReportInfo(info string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeInfo,
		Msg:  info,
	})
}

func ReportSuccess(msg string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeSuccess,
		Msg:  msg,
	})
}

func ReportWarn(warn string) tea.Cmd {
	return CmdHandler(InfoMsg{
		Type: InfoTypeWarn,
		Msg:  warn,
	})
}

// InfoMsg is shown in the status line for TTL, or [DefaultTTL] when zero.
type InfoMsg struct {
	Type InfoType
	Msg  string
	TTL  time.Duration
}
