package app

import (
	"time"

	"pinboard/internal/types"
)

type attachDoneMsg struct {
	err error
}

type uiStateMsg struct {
	state *types.UIState
	err   error
}

type uiStateSavedMsg struct {
	err error
}

type snapshotReloadMsg struct {
	err error
}

type tickMsg time.Time
