// Package tui provides the interactive Bubble Tea dashboard for cafflog.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/cli"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tracker"
	"github.com/theirongolddev/cafflog/internal/tui/components"
	"github.com/theirongolddev/cafflog/internal/tui/theme"
)

// snapshotMsg carries fresh tracker state after a load or an action.
type snapshotMsg struct {
	snap    model.Snapshot
	rolled  bool
	message string
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	snap    model.Snapshot
	loaded  bool

	// UI state
	width    int
	height   int
	showHelp bool
	message  string
	spinner  spinner.Model

	// Active huh form, if any
	form      *huh.Form
	formKind  formKind
	drinkVals *drinkValues
	goalVals  *goalValues

	tickEvery time.Duration
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 120
	minContentHeight = 5
	maxEntryRows     = 12

	rolloverTick = time.Minute
)

// NewApp creates the dashboard over tr.
func NewApp(tr *tracker.Tracker) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		tracker:   tr,
		spinner:   sp,
		drinkVals: &drinkValues{},
		goalVals:  &goalValues{},
		tickEvery: rolloverTick,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		refreshCmd(a.tracker, ""),
		a.spinner.Tick,
		tickCmd(a.tickEvery),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// An open form intercepts all other keys
		if a.form != nil {
			return a.updateForm(msg)
		}

		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit
		case "a":
			// Form values live on the heap; App is copied on every update.
			a.drinkVals = &drinkValues{Drink: a.drinkVals.Drink}
			return a.openForm(formDrink, newDrinkForm(a.drinkVals, a.snap.Unit))
		case "g":
			a.goalVals = &goalValues{}
			return a.openForm(formGoal, newGoalForm(a.goalVals, a.snap.Goal))
		case "u":
			return a, toggleUnitCmd(a.tracker, a.snap.Unit)
		case "r":
			return a, refreshCmd(a.tracker, "Refreshed")
		}
		return a, nil

	case snapshotMsg:
		a.snap = msg.snap
		a.loaded = true
		switch {
		case msg.rolled:
			a.message = "New day, log reset"
		case msg.message != "":
			a.message = msg.message
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		return a, tea.Batch(tickCmd(a.tickEvery), refreshCmd(a.tracker, ""))
	}

	// Forward unhandled messages to the form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}

	return a, nil
}

func (a App) openForm(kind formKind, form *huh.Form) (tea.Model, tea.Cmd) {
	a.formKind = kind
	a.form = form
	if a.width > 0 {
		a.form = a.form.WithWidth(a.formWidth())
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		kind := a.formKind
		a.form = nil
		a.formKind = formNone
		return a, a.submit(kind)
	case huh.StateAborted:
		a.form = nil
		a.formKind = formNone
		a.message = "Cancelled"
		return a, nil
	}

	return a, cmd
}

// submit applies a completed form to the tracker.
func (a App) submit(kind formKind) tea.Cmd {
	switch kind {
	case formDrink:
		return logDrinkCmd(a.tracker, *a.drinkVals)
	case formGoal:
		return setGoalCmd(a.tracker, a.goalVals.Goal)
	}
	return nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) formWidth() int {
	w := a.contentWidth() - 8
	if w > 60 {
		w = 60
	}
	return w
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.form != nil {
		return a.viewForm()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cafflog needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logoStyle.Render("◈ cafflog") + "\n\n" +
		a.spinner.View() + mutedStyle.Render(" Loading today's log...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	title := "Log a drink"
	if a.formKind == formGoal {
		title = "Set daily goal"
	}
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)

	card := cardStyle.Render(titleStyle.Render(title) + "\n\n" + a.form.View())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"a", "Log a drink"},
		{"g", "Set or clear the daily goal"},
		{"u", "Switch between ml and fl oz"},
		{"r", "Refresh (checks for a new day)"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-6s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	headerStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true).
		Width(w)
	header := headerStyle.Render(fmt.Sprintf(" ◈ cafflog  %s  %s", a.snap.Date, a.snap.Unit))

	statusBar := components.RenderStatusBar(w, a.message)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	content := a.renderToday(cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderToday(cw int) string {
	t := theme.Active
	st := tracker.Progress(a.snap.TotalMg, a.snap.Goal)

	totalColor := t.TextPrimary
	if st.Goal.IsSet() {
		totalColor = t.ForUsage(st.UsedPercent, st.OverLimit)
	}

	remaining := cli.FormatRemaining(a.snap.TotalMg, a.snap.Goal)
	if remaining == "" {
		remaining = "-"
	}

	metrics := components.MetricCardRow([]components.Metric{
		{Label: "Today", Value: cli.FormatMg(a.snap.TotalMg), Note: entryCount(len(a.snap.Entries)), Color: totalColor},
		{Label: "Goal", Value: cli.FormatGoal(a.snap.Goal)},
		{Label: "Remaining", Value: remaining},
	}, cw)

	barBody := components.GoalBar(st, components.CardInnerWidth(cw)-5)
	if st.OverLimit {
		warn := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
		barBody += "\n" + warn.Render("! Over your daily goal")
	}
	goalCard := components.ContentCard("Goal", barBody, cw)

	entriesCard := components.ContentCard("Entries", a.renderEntries(components.CardInnerWidth(cw)), cw)

	return lipgloss.JoinVertical(lipgloss.Left, metrics, goalCard, entriesCard)
}

func (a App) renderEntries(width int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	if len(a.snap.Entries) == 0 {
		return muted.Render("Nothing logged yet. Press a to add a drink.")
	}

	entries := a.snap.Entries
	hidden := 0
	if len(entries) > maxEntryRows {
		hidden = len(entries) - maxEntryRows
		entries = entries[hidden:]
	}

	lines := []string{muted.Render(truncStr(fmt.Sprintf("%-9s %-10s %-12s %s", "Time", "Drink", "Size", "Caffeine"), width))}
	if hidden > 0 {
		lines = append(lines, muted.Render(fmt.Sprintf("... %d earlier", hidden)))
	}
	for _, e := range entries {
		line := fmt.Sprintf("%-9s %-10s %-12s %s",
			e.Time, caffeine.DisplayName(e.Drink), e.Size, cli.FormatMg(e.CaffeineMg))
		lines = append(lines, row.Render(truncStr(line, width)))
	}
	return strings.Join(lines, "\n")
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd re-runs the day-boundary check and reloads state.
func refreshCmd(tr *tracker.Tracker, message string) tea.Cmd {
	return func() tea.Msg {
		rolled := tr.CheckRollover()
		return snapshotMsg{snap: tr.Snapshot(), rolled: rolled, message: message}
	}
}

func logDrinkCmd(tr *tracker.Tracker, vals drinkValues) tea.Cmd {
	return func() tea.Msg {
		drink, err := caffeine.ParseCategory(vals.Drink)
		if err != nil {
			return snapshotMsg{snap: tr.Snapshot(), message: err.Error()}
		}
		size, err := parseSize(vals.Size)
		if err != nil {
			return snapshotMsg{snap: tr.Snapshot(), message: "Size: " + err.Error()}
		}

		entry, ok := tr.LogDrink(drink, size, tr.Unit())
		if !ok {
			return snapshotMsg{snap: tr.Snapshot(), message: "Size: " + errSizeLimit.Error()}
		}
		return snapshotMsg{
			snap:    tr.Snapshot(),
			message: fmt.Sprintf("Logged %s, %s", caffeine.DisplayName(entry.Drink), cli.FormatMg(entry.CaffeineMg)),
		}
	}
}

func setGoalCmd(tr *tracker.Tracker, raw string) tea.Cmd {
	return func() tea.Msg {
		g := tr.SetGoal(raw)
		msg := "Goal cleared"
		if g.IsSet() {
			msg = "Goal set to " + cli.FormatMg(int(g))
		}
		return snapshotMsg{snap: tr.Snapshot(), message: msg}
	}
}

func toggleUnitCmd(tr *tracker.Tracker, current model.Unit) tea.Cmd {
	return func() tea.Msg {
		next := model.FluidOunces
		if current == model.FluidOunces {
			next = model.Milliliters
		}
		tr.SetUnit(next)
		return snapshotMsg{snap: tr.Snapshot(), message: "Showing " + string(next)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func entryCount(n int) string {
	if n == 1 {
		return "1 drink"
	}
	return fmt.Sprintf("%d drinks", n)
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit < 1 {
		return ""
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
