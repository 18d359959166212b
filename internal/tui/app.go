package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/moodlog/internal/diary"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/kv"
	"github.com/pbaille/moodlog/internal/locale"
	"github.com/pbaille/moodlog/internal/logging"
	"github.com/pbaille/moodlog/internal/store"
	"github.com/pbaille/moodlog/internal/theme"
	"github.com/pbaille/moodlog/internal/trend"
)

type tab int

const (
	tabRecord tab = iota
	tabEntries
	tabChart
)

var tabNames = []string{"Записать", "Записи", "График"}

type App struct {
	session *diary.Session
	store   *store.Store
	prefs   kv.Blob
	trend   *trend.Aggregator
	format  locale.Formatter
	log     *logging.Logger

	tab    tab
	width  int
	height int

	// Sub-components
	input   textarea.Model
	spinner spinner.Model

	// State
	analyzing bool
	analysis  *diary.Analysis
	entries   []domain.Entry
	points    []trend.Point
	cursor    int
	theme     theme.Mode
	notice    *diary.Notice
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Session *diary.Session
	Store   *store.Store
	Prefs   kv.Blob
	Trend   *trend.Aggregator
	Format  locale.Formatter
	Log     *logging.Logger
}

func NewApp(opts RunOpts) *App {
	ta := textarea.New()
	ta.Placeholder = "Как прошёл твой день?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(5)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	mode, err := theme.Get(opts.Prefs)
	if err != nil {
		opts.Log.Warnf("theme: %v", err)
	}
	applyTheme(mode)

	return &App{
		session: opts.Session,
		store:   opts.Store,
		prefs:   opts.Prefs,
		trend:   opts.Trend,
		format:  opts.Format,
		log:     opts.Log,
		input:   ta,
		spinner: sp,
		theme:   mode,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.loadEntriesCmd())
}

func (a *App) loadEntriesCmd() tea.Cmd {
	st := a.store
	agg := a.trend
	return func() tea.Msg {
		entries, err := st.List()
		if err != nil {
			return entriesLoadedMsg{err: err}
		}
		return entriesLoadedMsg{entries: entries, points: agg.FromEntries(entries)}
	}
}

func (a *App) analyzeCmd(text string) tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		res, err := sess.Analyze(text)
		return analyzedMsg{analysis: res, err: err}
	}
}

func (a *App) saveCmd() tea.Cmd {
	sess := a.session
	return func() tea.Msg {
		entry, err := sess.Save()
		return savedMsg{entry: entry, err: err}
	}
}

func (a *App) deleteCmd(id string) tea.Cmd {
	st := a.store
	return func() tea.Msg {
		_, err := st.Delete(id)
		return deletedMsg{err: err}
	}
}

func (a *App) toggleThemeCmd() tea.Cmd {
	prefs := a.prefs
	return func() tea.Msg {
		mode, err := theme.Toggle(prefs)
		return themeChangedMsg{mode: mode, err: err}
	}
}

func (a *App) fail(err error) {
	n := diary.Explain(err)
	a.notice = &n
	a.log.Warnf("%v", err)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.SetWidth(max(20, msg.Width-6))
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case analyzedMsg:
		a.analyzing = false
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.analysis = &msg.analysis
		return a, nil

	case savedMsg:
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.analysis = nil
		a.input.Reset()
		n := diary.SavedNotice
		a.notice = &n
		return a, a.loadEntriesCmd()

	case deletedMsg:
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		n := diary.DeletedNotice
		a.notice = &n
		return a, a.loadEntriesCmd()

	case entriesLoadedMsg:
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.entries = msg.entries
		a.points = msg.points
		if a.cursor >= len(a.entries) {
			a.cursor = max(0, len(a.entries)-1)
		}
		return a, nil

	case themeChangedMsg:
		if msg.err != nil {
			a.fail(msg.err)
			return a, nil
		}
		a.theme = msg.mode
		applyTheme(msg.mode)
		return a, nil

	case spinner.TickMsg:
		if a.analyzing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.tab == tabRecord {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) switchTab(t tab) (tea.Model, tea.Cmd) {
	a.tab = t
	if t == tabRecord {
		return a, a.input.Focus()
	}
	a.input.Blur()
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear sticky notice on any keypress
	a.notice = nil

	// Global keys
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+t":
		return a, a.toggleThemeCmd()
	case "tab":
		return a.switchTab((a.tab + 1) % tab(len(tabNames)))
	case "shift+tab":
		return a.switchTab((a.tab + tab(len(tabNames)) - 1) % tab(len(tabNames)))
	}

	if a.tab == tabRecord {
		return a.handleRecordKey(msg)
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "t":
		return a, a.toggleThemeCmd()
	case "1", "2", "3":
		return a.switchTab(tab(msg.String()[0] - '1'))
	}

	if a.tab == tabEntries {
		switch msg.String() {
		case "j", "down":
			if a.cursor < len(a.entries)-1 {
				a.cursor++
			}
		case "k", "up":
			if a.cursor > 0 {
				a.cursor--
			}
		case "d", "delete":
			if a.cursor < len(a.entries) {
				return a, a.deleteCmd(a.entries[a.cursor].ID)
			}
		}
	}
	return a, nil
}

func (a *App) handleRecordKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		if a.analyzing {
			return a, nil
		}
		a.analysis = nil
		a.analyzing = true
		return a, tea.Batch(a.analyzeCmd(a.input.Value()), a.spinner.Tick)
	case "ctrl+s":
		if a.analyzing {
			return a, nil
		}
		return a, a.saveCmd()
	case "esc":
		a.session.Discard()
		a.analysis = nil
		a.input.Reset()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  moodlog")
	}

	icon := "🌙"
	if a.theme == theme.Dark {
		icon = "☀️"
	}
	header := headerStyle.Render("AI-Дневник Настроения") + "  " + dimStyle.Render(icon)
	subtitle := subtitleStyle.Render("Твой личный эмоциональный помощник")

	var tabs []string
	for i, name := range tabNames {
		if tab(i) == a.tab {
			tabs = append(tabs, tabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(name))
		}
	}
	tabBar := " " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	contentW := max(20, a.width-2)
	contentH := max(6, a.height-8)

	var body string
	switch a.tab {
	case tabRecord:
		body = a.renderRecord()
	case tabEntries:
		body = paneTitleStyle.Render("Твои записи") + "\n" +
			renderEntries(a.entries, a.cursor, a.format, contentW-4, contentH-2)
	case tabChart:
		body = paneTitleStyle.Render("График настроения") + "\n" +
			dimStyle.Render("Динамика твоих эмоций за последние записи") + "\n\n" +
			RenderChart(a.points)
	}
	pane := paneStyle.Width(contentW - 2).Height(contentH).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, tabBar, pane, a.renderStatus())
}

func (a *App) renderRecord() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Запиши свои мысли"))
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.analyzing:
		b.WriteString(a.spinner.View() + " " + dimStyle.Render("Анализирую эмоцию..."))
	case a.analysis != nil:
		e := a.analysis.Emotion
		b.WriteString(emotionStyle(e).Render(fmt.Sprintf("%s %s", e.Emoji(), e.Label())))
		b.WriteString("\n")
		b.WriteString(adviceStyle.Render("💡 " + a.analysis.Advice))
	}
	return b.String()
}

func (a *App) renderStatus() string {
	if a.notice != nil {
		style := noticeStyle
		if a.notice.Failed {
			style = errorStyle
		}
		return " " + style.Render(a.notice.Title) + " " + dimStyle.Render(a.notice.Detail)
	}

	var hints string
	switch a.tab {
	case tabRecord:
		hints = "ctrl+r анализ  ctrl+s сохранить  esc сброс  tab вкладка  ctrl+t тема  ctrl+c выход"
	case tabEntries:
		hints = "j/k выбор  d удалить  tab вкладка  t тема  q выход"
	default:
		hints = "tab вкладка  t тема  q выход"
	}
	left := fmt.Sprintf(" %d записей", len(a.entries))
	gap := max(0, a.width-lipgloss.Width(left)-lipgloss.Width(hints)-2)
	return statusBarStyle.Width(a.width).Render(left + strings.Repeat(" ", gap) + hints)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
