// Package triage is the interactive review TUI: scroll the job list, read
// descriptions, and set each job's status.
package triage

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/averyk/jobscout/internal/model"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusColors = map[string]lipgloss.Style{
		model.StatusNew:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		model.StatusInterested: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),  // green
		model.StatusPassed:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")), // dim gray
		model.StatusApplied:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		model.StatusRejected:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		model.StatusOffer:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // gold
	}
)

// StatusUpdater persists a status change made in the TUI.
type StatusUpdater interface {
	UpdateStatus(id int64, status string) (*model.Job, error)
}

// statusKeys maps triage keystrokes to job statuses.
var statusKeys = map[string]string{
	"i": model.StatusInterested,
	"p": model.StatusPassed,
	"a": model.StatusApplied,
	"x": model.StatusRejected,
	"f": model.StatusOffer,
}

type triageModel struct {
	jobs     []model.Job
	updater  StatusUpdater
	cursor   int
	width    int
	height   int
	ready    bool
	lastErr  string
	viewport viewport.Model

	view           viewState
	detailViewport viewport.Model
}

func (m triageModel) Init() tea.Cmd {
	return nil
}

func (m triageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m triageModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	case "o":
		if job, ok := m.currentJob(); ok {
			openURL(job.URL)
		}
		return m, nil
	default:
		if status, ok := statusKeys[key]; ok {
			m.setStatus(status)
			m.recalcContent()
			return m, nil
		}
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m triageModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		m.recalcContent()
		return m, nil
	case "o":
		if job, ok := m.currentJob(); ok {
			openURL(job.URL)
		}
		return m, nil
	default:
		if status, ok := statusKeys[key]; ok {
			m.setStatus(status)
			m.detailViewport.SetContent(m.renderDetail())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *triageModel) setStatus(status string) {
	job, ok := m.currentJob()
	if !ok {
		return
	}
	updated, err := m.updater.UpdateStatus(job.ID, status)
	if err != nil {
		m.lastErr = fmt.Sprintf("status update failed: %v", err)
		return
	}
	if updated == nil {
		m.lastErr = fmt.Sprintf("job %d no longer exists", job.ID)
		return
	}
	m.lastErr = ""
	m.jobs[m.cursor].Status = updated.Status
}

func (m triageModel) currentJob() (model.Job, bool) {
	if len(m.jobs) == 0 {
		return model.Job{}, false
	}
	return m.jobs[m.cursor], true
}

func (m *triageModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.jobs)-1, 0))
}

func (m *triageModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.viewport.YOffset {
		m.viewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(cursorBottom - m.viewport.Height + 1)
	}
}

func (m triageModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.jobs) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *triageModel) recalcLayout() {
	paneWidth := max(m.width-2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.viewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.viewport.Width = paneWidth
		m.viewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *triageModel) recalcContent() {
	m.viewport.SetContent(renderJobs(m.jobs, m.cursor))
}

func (m triageModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m triageModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf(" Jobs (%d)", len(m.jobs)))
	pane := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())

	statusText := " ↑/↓ cursor  Enter detail  i/p/a/x/f status  o open  q quit"
	if m.lastErr != "" {
		statusText = " " + m.lastErr
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + pane + "\n" + statusBar
}

func (m triageModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	statusText := " o open URL  i/p/a/x/f status  esc/backspace back  ↑/↓ scroll  q quit"
	if m.lastErr != "" {
		statusText = " " + m.lastErr
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m triageModel) renderDetail() string {
	job, ok := m.currentJob()
	if !ok {
		return "  (no jobs)"
	}

	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", job.Title)
	addField("Source", job.Source)
	addField("Feed", job.Feed)
	addField("Posted", job.PostedDate)
	addField("Status", job.Status)
	addField("Location", job.LocationLabel)
	addField("Type", job.JobType)
	addField("Pay", job.PayRange)
	addField("Duration", job.ContractDuration)
	if job.Score != nil {
		addField("Score", fmt.Sprintf("%.1f", *job.Score))
	}
	addField("Rationale", job.ScoreRationale)

	b.WriteByte('\n')
	addField("URL", job.URL)

	if m.lastErr != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.lastErr) + "\n")
	}

	if job.Description != "" {
		wrapWidth := max(m.width-8, 20)
		fill := strings.Repeat("─", max(wrapWidth-len("── Description "), 3))
		b.WriteByte('\n')
		b.WriteString(descDividerStyle.Render("── Description "+fill) + "\n\n")
		b.WriteString(descBodyStyle.Render(wordWrap(job.Description, wrapWidth)) + "\n")
	}

	return b.String()
}

func renderJobs(jobs []model.Job, cursor int) string {
	if len(jobs) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, job := range jobs {
		isSelected := i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(job.Title))
		b.WriteByte('\n')

		statusSt, ok := statusColors[job.Status]
		if !ok {
			statusSt = jobSubtitleStyle
		}
		score := ""
		if job.Score != nil {
			score = fmt.Sprintf(" · %.1f", *job.Score)
		}
		label := job.LocationLabel
		if label == "" {
			label = "unlabeled"
		}
		posted := job.PostedDate
		if posted == "" {
			posted = "n/a"
		}

		b.WriteString(prefix)
		b.WriteString(statusSt.Render(job.Status))
		b.WriteString(subtitleSt.Render(fmt.Sprintf(" · %s · %s%s", label, posted, score)))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the triage TUI over the given jobs. Status changes are written
// through updater as they happen.
func Run(jobs []model.Job, updater StatusUpdater) error {
	m := triageModel{
		jobs:    jobs,
		updater: updater,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
