package tui

import (
	"mailpilot/internal/dispatch"
	"mailpilot/internal/model"
)

// Async message types for Bubble Tea commands.

type folderLoadedMsg struct {
	folder string // "inbox" or "sent"
	err    error
}

// dispatchDoneMsg reports a completed action, whether it came from the
// assistant or a direct keybinding.
type dispatchDoneMsg struct {
	result dispatch.Result
}

type threadLoadedMsg struct {
	emails []model.Email
	err    error
}

type statusMsg string
