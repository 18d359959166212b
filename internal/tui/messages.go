package tui

import (
	"github.com/pbaille/moodlog/internal/diary"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/theme"
	"github.com/pbaille/moodlog/internal/trend"
)

type analyzedMsg struct {
	analysis diary.Analysis
	err      error
}

type savedMsg struct {
	entry *domain.Entry
	err   error
}

type entriesLoadedMsg struct {
	entries []domain.Entry
	points  []trend.Point
	err     error
}

type deletedMsg struct {
	err error
}

type themeChangedMsg struct {
	mode theme.Mode
	err  error
}
