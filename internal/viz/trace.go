package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/uniconv/internal/convergence"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Bracket is the index range still under consideration.
type Bracket struct {
	Left, Right int
}

func (b Bracket) Empty() bool { return b.Left > b.Right }

// TraceModel steps through the probes of a finished search.
type TraceModel struct {
	name     string
	result   convergence.Result
	cursor   int
	brackets []Bracket
	width    int
}

func NewTraceModel(name string, res convergence.Result) TraceModel {
	return TraceModel{
		name:     name,
		result:   res,
		brackets: Brackets(res),
		width:    80,
	}
}

// Brackets replays the search and returns the bracket in force before each
// probe, followed by the final bracket.
func Brackets(res convergence.Result) []Bracket {
	b := Bracket{Left: 1, Right: res.MaxN}
	out := make([]Bracket, 0, len(res.Trace)+1)
	out = append(out, b)

	for _, p := range res.Trace {
		switch res.Strategy {
		case convergence.StrategyLinear:
			if p.Below {
				b = Bracket{Left: p.N, Right: p.N - 1}
			} else {
				b.Left = p.N + 1
			}
		default:
			if p.Below {
				b.Right = p.N - 1
			} else {
				b.Left = p.N + 1
			}
		}
		out = append(out, b)
	}
	return out
}

func (m TraceModel) Cursor() int { return m.cursor }

func (m TraceModel) Init() tea.Cmd { return nil }

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", " ", "right", "l", "j":
			if m.cursor < len(m.result.Trace)-1 {
				m.cursor++
			}
		case "p", "left", "h", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			m.cursor = max(0, len(m.result.Trace)-1)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m TraceModel) View() string {
	var sb strings.Builder
	res := m.result

	sb.WriteString(cyan.Render(m.name))
	sb.WriteString(dim.Render(fmt.Sprintf("  %s search, eps=%g, max n=%d", res.Strategy, res.Epsilon, res.MaxN)))
	sb.WriteString("\n\n")

	if len(res.Trace) == 0 {
		sb.WriteString(dim.Render("no probes recorded"))
		sb.WriteString("\n")
		return sb.String()
	}

	p := res.Trace[m.cursor]
	before, after := m.brackets[m.cursor], m.brackets[m.cursor+1]

	fmt.Fprintf(&sb, "%s %s\n", dim.Render("probe   "), white.Render(fmt.Sprintf("%d / %d", m.cursor+1, len(res.Trace))))
	fmt.Fprintf(&sb, "%s %s\n", dim.Render("bracket "), white.Render(formatBracket(before)))
	fmt.Fprintf(&sb, "%s %s\n", dim.Render("n       "), yellow.Render(fmt.Sprint(p.N)))

	cmp := red.Render(fmt.Sprintf("%.6e >= %g", p.Distance, res.Epsilon))
	if p.Below {
		cmp = green.Render(fmt.Sprintf("%.6e <  %g", p.Distance, res.Epsilon))
	}
	fmt.Fprintf(&sb, "%s %s\n", dim.Render("distance"), cmp)
	fmt.Fprintf(&sb, "%s %s\n\n", dim.Render("next    "), white.Render(formatBracket(after)))

	sb.WriteString(m.bar(before, p.N))
	sb.WriteString("\n\n")

	best := 0
	for _, q := range res.Trace[:m.cursor+1] {
		if q.Below {
			best = q.N
		}
	}
	if best > 0 {
		sb.WriteString(green.Render(fmt.Sprintf("best so far: N=%d", best)))
	} else {
		sb.WriteString(red.Render("no sufficient N yet"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(dim.Render("n/space next  p prev  g/G first/last  q quit"))
	sb.WriteString("\n")
	return sb.String()
}

// bar draws [1, MaxN] with the bracket shaded and the probe marked.
func (m TraceModel) bar(b Bracket, n int) string {
	width := max(10, min(m.width-4, 70))
	maxN := max(1, m.result.MaxN)
	col := func(i int) int {
		c := (i - 1) * (width - 1) / max(1, maxN-1)
		return max(0, min(width-1, c))
	}

	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '·'
	}
	if !b.Empty() {
		for i := col(b.Left); i <= col(b.Right); i++ {
			cells[i] = '─'
		}
	}
	cells[col(n)] = '●'
	return string(cells)
}

func formatBracket(b Bracket) string {
	if b.Empty() {
		return "empty"
	}
	return fmt.Sprintf("[%d, %d]", b.Left, b.Right)
}
