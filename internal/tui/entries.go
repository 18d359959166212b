package tui

import (
	"strings"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/locale"
)

const entriesEmpty = "Начни вести дневник, чтобы увидеть записи здесь"

// renderEntries lists entries newest first, three lines each, scrolled so
// the cursor stays within height lines.
func renderEntries(entries []domain.Entry, cursor int, format locale.Formatter, width, height int) string {
	if len(entries) == 0 {
		return dimStyle.Render(entriesEmpty)
	}

	const perEntry = 4
	visible := max(1, height/perEntry)
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := min(len(entries), start+visible)

	var b strings.Builder
	for i := start; i < end; i++ {
		e := entries[i]
		marker := "  "
		if i == cursor {
			marker = selectedStyle.Render("▸ ")
		}
		b.WriteString(marker)
		b.WriteString(emotionStyle(e.Emotion).Render(e.Emotion.Emoji() + " " + e.Emotion.Label()))
		b.WriteString(dimStyle.Render(" · " + format.DateTime(e.Timestamp)))
		b.WriteString("\n  ")
		b.WriteString(truncateStr(e.Text, width-4))
		b.WriteString("\n  ")
		b.WriteString(adviceStyle.Render(truncateStr("💡 "+e.Advice, width-4)))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncateStr shortens s to n runes, ending with "..." when cut
func truncateStr(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
