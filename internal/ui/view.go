package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/dailyboard/internal/board"
	"github.com/nibzard/dailyboard/internal/messages"
	"github.com/nibzard/dailyboard/internal/utils"
)

const (
	defaultColumnWidth = 30
	minColumnWidth     = 18
	columnGap          = 1

	// headerHeight is the number of lines written above the columns.
	headerHeight = 5
	// Rows inside a column before the first card: top border, title, rule.
	cardOffset = 3
)

const (
	boardTitle  = "Daily Task Board"
	emptyColumn = "Drop tasks here"
	tipLine     = "Tip: Drag and drop tasks to update their status"
	clearPrompt = "Are you sure you want to clear all tasks? This cannot be undone. (y/N)"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	columnStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	emptyStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	draggingStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)

	columnColors = map[board.Status]lipgloss.Color{
		board.StatusTodo:       lipgloss.Color("39"),
		board.StatusInProgress: lipgloss.Color("214"),
		board.StatusDone:       lipgloss.Color("42"),
	}
	dropTargetColor = lipgloss.Color("231")

	flashStyles = map[messages.Kind]lipgloss.Style{
		messages.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		messages.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		messages.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func (m *boardModel) View() string {
	var b strings.Builder
	state := m.store.Snapshot()

	writeHeader(&b, board.ComputeStats(state), m.input.View(), m.statusLine())
	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}
	m.writeColumns(&b, state)
	m.writeFooter(&b, state)
	return b.String()
}

// writeHeader writes exactly headerHeight lines.
func writeHeader(b *strings.Builder, stats board.Stats, input, status string) {
	b.WriteString(titleStyle.Render(boardTitle) + "\n")
	b.WriteString(statsStyle.Render(fmt.Sprintf("Total: %d   In Progress: %d   Completed: %d   Completion Rate: %d%%",
		stats.Total, stats.InProgress, stats.Completed, stats.CompletionRate)) + "\n")
	b.WriteString("\n")
	b.WriteString(input + "\n")
	b.WriteString(status + "\n")
}

func (m *boardModel) statusLine() string {
	if m.confirming {
		return flashStyles[messages.Warning].Render(clearPrompt)
	}
	if m.flash == "" {
		return ""
	}
	style, ok := flashStyles[m.flashKind]
	if !ok {
		style = flashStyles[messages.Success]
	}
	return style.Render(m.flash)
}

func (m *boardModel) writeColumns(b *strings.Builder, state board.State) {
	width := m.columnWidth()
	gap := strings.Repeat(" ", columnGap)

	var cols []string
	for i, status := range board.Statuses() {
		if i > 0 {
			cols = append(cols, gap)
		}
		cols = append(cols, m.renderColumn(status, state.List(status), width, i == m.col))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...) + "\n")
}

func (m *boardModel) renderColumn(status board.Status, tasks []board.Task, width int, selectedCol bool) string {
	inner := width - 4

	lines := []string{
		headingStyle.Render(utils.Truncate(fmt.Sprintf("%s (%d)", status.Title(), len(tasks)), inner)),
		strings.Repeat("─", inner),
	}
	if len(tasks) == 0 {
		lines = append(lines, emptyStyle.Render(utils.Truncate(emptyColumn, inner)))
	}
	for j, task := range tasks {
		text := utils.Truncate(utils.SingleLine(task.Content), inner-2)
		isSelected := selectedCol && j == m.row && !m.input.Focused()
		switch {
		case m.drag.InTransfer(task.ID):
			lines = append(lines, "  "+draggingStyle.Render(text))
		case isSelected:
			lines = append(lines, "▸ "+selectedStyle.Render(text))
		default:
			lines = append(lines, "  "+text)
		}
	}

	style := columnStyle.Width(width - 2).BorderForeground(columnColors[status])
	if m.drag.Over() == status {
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(dropTargetColor)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m *boardModel) writeFooter(b *strings.Builder, state board.State) {
	b.WriteString("\n")
	if id := m.drag.Dragging(); id != "" {
		content := ""
		if status, idx, ok := state.Find(id); ok {
			content = state.List(status)[idx].Content
		}
		target := "nowhere"
		if over := m.drag.Over(); over != "" {
			target = over.Title()
		}
		b.WriteString(fmt.Sprintf("Moving %q to %s\n", utils.Truncate(utils.SingleLine(content), 40), target))
		b.WriteString(hintStyle.Render("←/→ choose column · space/enter drop · esc cancel") + "\n")
		return
	}
	b.WriteString(tipLine + "\n")
	if m.input.Focused() {
		b.WriteString(hintStyle.Render("enter add · esc done") + "\n")
		return
	}
	b.WriteString(hintStyle.Render("a add · x remove · space move · C clear · ? help · q quit") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a, i           Add a task (enter submits, esc leaves the input)\n")
	b.WriteString("  ←/→/↑/↓, hjkl  Select a card\n")
	b.WriteString("  space          Pick up the selected card\n")
	b.WriteString("  ←/→            Drag the picked-up card across columns\n")
	b.WriteString("  space, enter   Drop the card\n")
	b.WriteString("  esc            Cancel the drag\n")
	b.WriteString("  x, delete      Remove the selected card\n")
	b.WriteString("  C              Clear all tasks\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
	b.WriteString("Mouse: press a card, drag it over a column and release to drop.\n")
}

func (m *boardModel) columnWidth() int {
	if m.width <= 0 {
		return defaultColumnWidth
	}
	cols := len(board.Statuses())
	return max(minColumnWidth, (m.width-(cols-1)*columnGap)/cols)
}

// boardHeight is the rendered height of the tallest column.
func (m *boardModel) boardHeight() int {
	state := m.store.Snapshot()
	rows := 1
	for _, status := range board.Statuses() {
		rows = max(rows, len(state.List(status)))
	}
	return cardOffset + rows + 1
}

// columnAt returns the column under the cell (x, y).
func (m *boardModel) columnAt(x, y int) (board.Status, bool) {
	if x < 0 || y < headerHeight || y >= headerHeight+m.boardHeight() {
		return "", false
	}
	width := m.columnWidth()
	span := width + columnGap
	idx := x / span
	statuses := board.Statuses()
	if idx >= len(statuses) || x-idx*span >= width {
		return "", false
	}
	return statuses[idx], true
}

// cardAt returns the column and row of the card under the cell (x, y).
func (m *boardModel) cardAt(x, y int) (board.Status, int, bool) {
	status, ok := m.columnAt(x, y)
	if !ok {
		return "", 0, false
	}
	row := y - headerHeight - cardOffset
	if row < 0 || row >= len(m.store.Snapshot().List(status)) {
		return "", 0, false
	}
	return status, row, true
}
