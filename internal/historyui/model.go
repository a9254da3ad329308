// Package historyui provides the Bubble Tea browser for stored cryptanalysis runs.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cryptan/internal/model"
	"github.com/verte-zerg/cryptan/internal/report"
)

const (
	headerHeight = 2
	footerHeight = 1
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// RunLoader loads the full detail of a stored run.
type RunLoader interface {
	GetRun(ctx context.Context, id int64) (model.Run, error)
}

// Model implements the history browser: a run table and a detail view.
type Model struct {
	loader RunLoader
	runs   []model.Run

	table      table.Model
	detail     viewport.Model
	showDetail bool
	detailRun  int64
	errMsg     string

	width  int
	height int
}

// NewModel constructs the browser. runs are shown newest first.
func NewModel(loader RunLoader, runs []model.Run) *Model {
	ordered := make([]model.Run, len(runs))
	for i, run := range runs {
		ordered[len(runs)-1-i] = run
	}
	m := &Model{
		loader: loader,
		runs:   ordered,
		detail: viewport.New(0, 0),
	}
	m.table = buildRunTable(ordered)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.showDetail {
			switch msg.String() {
			case "esc", "backspace", "left", "h":
				m.showDetail = false
				return m, nil
			}
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		if msg.Type == tea.KeyEnter {
			m.openDetail()
			return m, nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	title := "Cryptanalysis History"
	if m.showDetail {
		title = fmt.Sprintf("%s / Run %d", title, m.detailRun)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
	} else {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%d runs", len(m.runs))))
	}
	b.WriteString("\n")
	switch {
	case len(m.runs) == 0:
		b.WriteString("No runs recorded yet. Run: cryptan crack <file>\n")
	case m.showDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n")
	default:
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	b.WriteString(headerStyle.Render(m.helpText()))
	return b.String()
}

func (m *Model) helpText() string {
	if m.showDetail {
		return "↑/↓ scroll • esc back • q quit"
	}
	return "↑/↓ select • enter details • q quit"
}

func (m *Model) updateLayout() {
	bodyHeight := m.height - headerHeight - footerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(bodyHeight)
	m.detail.Width = m.width
	m.detail.Height = bodyHeight
}

func (m *Model) openDetail() {
	if len(m.runs) == 0 {
		return
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.runs) {
		return
	}
	run, err := m.loader.GetRun(context.Background(), m.runs[idx].ID)
	if err != nil {
		m.errMsg = fmt.Sprintf("Failed to load run %d: %v", m.runs[idx].ID, err)
		return
	}
	m.errMsg = ""
	m.detailRun = run.ID
	m.detail.SetContent(renderRunDetail(run, m.width))
	m.detail.GotoTop()
	m.showDetail = true
}

func renderRunDetail(run model.Run, width int) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Run %d  %s\n", run.ID, run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&buf, "Source: %s\n", run.Source)
	fmt.Fprintf(&buf, "Letters: %d  Range: %d-%d\n", run.Letters, run.MinLength, run.MaxLength)
	fmt.Fprintf(&buf, "Key: %s (length %d)\n", run.Key, run.BestLength)
	fmt.Fprintf(&buf, "Preview: %s\n\n", run.Preview)

	kl := model.KeyLengthReport{BestLength: run.BestLength, Lengths: run.Lengths}
	if err := report.RenderKeyLength(&buf, kl, false); err != nil {
		return fmt.Sprintf("Failed to render run: %v", err)
	}
	buf.WriteString("\n")
	if err := report.RenderIOCBars(&buf, kl, width, false); err != nil {
		return fmt.Sprintf("Failed to render run: %v", err)
	}
	if len(run.Lengths) > 1 {
		fmt.Fprintf(&buf, "\nTrend: [%s]\n", report.Sparkline(kl.AverageSeries()))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildRunTable(runs []model.Run) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "Source", Width: 24},
		{Title: "Range", Width: 7},
		{Title: "Letters", Width: 8},
		{Title: "Len", Width: 4},
		{Title: "Key", Width: 16},
	}
	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, table.Row{
			strconv.FormatInt(run.ID, 10),
			run.CreatedAt.Local().Format("2006-01-02 15:04"),
			run.Source,
			fmt.Sprintf("%d-%d", run.MinLength, run.MaxLength),
			strconv.Itoa(run.Letters),
			strconv.Itoa(run.BestLength),
			run.Key,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(runTableStyles())
	return t
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
