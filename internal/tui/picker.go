package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finlane/tutordock/internal/catalog"
	"github.com/finlane/tutordock/internal/domain"
	"github.com/finlane/tutordock/internal/tui/styles"
)

// Picker is the tutorial launcher modal: type-to-filter over the catalog
// with fuzzy matching and highlight of matched characters.
type Picker struct {
	catalog *catalog.Catalog
	query   string
	matches []catalog.Match
	cursor  int
	visible bool
}

// NewPicker creates a picker over the catalog.
func NewPicker(c *catalog.Catalog) *Picker {
	return &Picker{catalog: c}
}

// Open shows the picker with a cleared query.
func (p *Picker) Open() {
	p.visible = true
	p.query = ""
	p.cursor = 0
	p.refresh()
}

// Close hides the picker.
func (p *Picker) Close() {
	p.visible = false
}

// Visible reports whether the picker is showing.
func (p *Picker) Visible() bool {
	return p.visible
}

func (p *Picker) refresh() {
	if p.query == "" {
		all := p.catalog.All()
		p.matches = make([]catalog.Match, len(all))
		for i, t := range all {
			p.matches[i] = catalog.Match{Tutorial: t}
		}
	} else {
		p.matches = p.catalog.Search(p.query)
	}
	if p.cursor >= len(p.matches) {
		p.cursor = 0
	}
}

// HandleKey processes a key press. It returns the chosen tutorial on enter,
// and reports whether the key was consumed.
func (p *Picker) HandleKey(msg tea.KeyMsg) (*domain.Tutorial, bool) {
	if !p.visible {
		return nil, false
	}

	switch msg.Type {
	case tea.KeyEsc:
		p.Close()
	case tea.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case tea.KeyDown:
		if p.cursor < len(p.matches)-1 {
			p.cursor++
		}
	case tea.KeyEnter:
		if len(p.matches) > 0 {
			t := p.matches[p.cursor].Tutorial
			p.Close()
			return &t, true
		}
	case tea.KeyBackspace:
		if len(p.query) > 0 {
			p.query = p.query[:len(p.query)-1]
			p.refresh()
		}
	case tea.KeyRunes, tea.KeySpace:
		p.query += string(msg.Runes)
		p.refresh()
	default:
		return nil, false
	}
	return nil, true
}

// View renders the picker modal centered in the viewport.
func (p *Picker) View(width, height int) string {
	boxWidth := width / 2
	if boxWidth < 44 {
		boxWidth = 44
	}
	inner := boxWidth - 4

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Watch a tutorial"))
	b.WriteString("\n")
	b.WriteString(styles.AccentStyle.Render("> ") + p.query + styles.DimStyle.Render("▌"))
	b.WriteString("\n\n")

	if len(p.matches) == 0 {
		b.WriteString(styles.DimStyle.Render("no matching tutorials"))
	}
	for i, match := range p.matches {
		line := highlightTitle(match.Tutorial.Title, match.MatchedIndexes)
		if i == p.cursor {
			line = styles.AccentStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString("  " + styles.DimStyle.Render(truncate(match.Tutorial.Summary, inner-2)))
		b.WriteString("\n")
	}

	b.WriteString("\n" + styles.HelpStyle.Render("↑/↓ select · enter watch · esc cancel"))

	box := styles.ActiveBorder.Width(inner + 2).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// highlightTitle bolds the characters that matched the query.
func highlightTitle(title string, matched []int) string {
	if len(matched) == 0 {
		return styles.SubtitleStyle.Render(title)
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}
	var b strings.Builder
	for i, r := range []rune(title) {
		if set[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(styles.SubtitleStyle.Render(string(r)))
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
