// Package list provides the retrieved chunk list for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// ChunkList displays the chunks behind the last answer, nearest first.
type ChunkList struct {
	chunks   []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewChunkList creates a new chunk list component.
func NewChunkList(s *styles.Styles) *ChunkList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ChunkList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the chunk list.
func (c *ChunkList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (c *ChunkList) Update(msg tea.Msg) (*ChunkList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			c.MoveUp()
		case "down", "j":
			c.MoveDown()
		}
	}
	return c, nil
}

// View renders the chunk list with the selected chunk expanded.
func (c *ChunkList) View() string {
	if len(c.chunks) == 0 {
		return c.styles.Muted.Render("No chunks retrieved")
	}

	lines := make([]string, 0, len(c.chunks)+4)
	lines = append(lines, c.styles.Subtitle.Render(fmt.Sprintf("Chunks (%d)", len(c.chunks))), "")

	// One line per chunk plus the expanded preview.
	visibleCount := c.height - 6
	if visibleCount < 1 {
		visibleCount = 1
	}
	start := 0
	if c.selected >= visibleCount {
		start = c.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(c.chunks))

	for i := start; i < end; i++ {
		lines = append(lines, c.renderChunk(i, &c.chunks[i]))
	}

	if sel := c.SelectedChunk(); sel != nil {
		lines = append(lines, "", c.styles.Answer.Width(max(c.width-4, 20)).Render(sel.Text))
	}

	return strings.Join(lines, "\n")
}

// renderChunk formats one row: rank, source, distance and a one-line preview.
func (c *ChunkList) renderChunk(index int, chunk *domain.RetrievedChunk) string {
	indicator := "  "
	if index == c.selected {
		indicator = "> "
	}

	head := fmt.Sprintf("%s%d. %s", indicator, index+1, chunk.Source)
	distance := fmt.Sprintf("%.4f", chunk.Distance)

	maxPreview := c.width - len([]rune(head)) - len(distance) - 6
	preview := truncate(strings.Join(strings.Fields(chunk.Text), " "), maxPreview)

	if index == c.selected {
		return c.styles.Selected.Render(head+"  "+distance) + " " + c.styles.Muted.Render(preview)
	}
	return c.styles.Normal.Render(head+"  ") + c.styles.Distance(chunk.Distance).Render(distance) +
		" " + c.styles.Muted.Render(preview)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n < 4 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetChunks replaces the listed chunks and selects the first.
func (c *ChunkList) SetChunks(chunks []domain.RetrievedChunk) {
	c.chunks = chunks
	c.selected = 0
}

// Chunks returns the listed chunks.
func (c *ChunkList) Chunks() []domain.RetrievedChunk {
	return c.chunks
}

// Selected returns the index of the selected chunk.
func (c *ChunkList) Selected() int {
	return c.selected
}

// SelectedChunk returns the selected chunk, or nil if the list is empty.
func (c *ChunkList) SelectedChunk() *domain.RetrievedChunk {
	if c.selected < 0 || c.selected >= len(c.chunks) {
		return nil
	}
	return &c.chunks[c.selected]
}

// MoveUp moves selection up.
func (c *ChunkList) MoveUp() {
	if c.selected > 0 {
		c.selected--
	}
}

// MoveDown moves selection down.
func (c *ChunkList) MoveDown() {
	if c.selected < len(c.chunks)-1 {
		c.selected++
	}
}

// SetDimensions sets the component dimensions.
func (c *ChunkList) SetDimensions(width, height int) {
	c.width = width
	c.height = height
}

// Count returns the number of chunks.
func (c *ChunkList) Count() int {
	return len(c.chunks)
}

// IsEmpty returns whether the list is empty.
func (c *ChunkList) IsEmpty() bool {
	return len(c.chunks) == 0
}
