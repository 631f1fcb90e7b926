package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Viewer is an interactive browser over a run's profiles.
type Viewer struct {
	series        []Series
	index         int
	logValues     bool
	showBins      bool
	theme         Theme
	width, height int
}

func NewViewer(series []Series, theme Theme) Viewer {
	return Viewer{
		series: series,
		theme:  theme,
		width:  defaultWidth,
		height: defaultHeight,
	}
}

func (v Viewer) Init() tea.Cmd { return nil }

func (v Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		case "right", "n", "tab":
			if len(v.series) > 0 {
				v.index = (v.index + 1) % len(v.series)
			}
		case "left", "p", "shift+tab":
			if len(v.series) > 0 {
				v.index = (v.index - 1 + len(v.series)) % len(v.series)
			}
		case "l":
			v.logValues = !v.logValues
		case "b":
			v.showBins = !v.showBins
		}
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	}
	return v, nil
}

// Current returns the displayed series index and whether values are on a
// log10 axis.
func (v Viewer) Current() (int, bool) { return v.index, v.logValues }

func (v Viewer) View() string {
	var b strings.Builder
	title, accent, muted := v.theme.title(), v.theme.accent(), v.theme.muted()

	if len(v.series) == 0 {
		b.WriteString("\n  " + v.theme.warning().Render("no profiles recorded") + "\n\n")
		b.WriteString("  " + muted.Render("q quit") + "\n")
		return b.String()
	}

	s := v.series[v.index]
	b.WriteString("\n  " + title.Render(strings.ToUpper(s.Name)) +
		muted.Render(fmt.Sprintf("  %d/%d", v.index+1, len(v.series))) + "\n")
	b.WriteString("  " + muted.Render(Caption(s, v.logValues)) + "\n\n")

	plotHeight := max(v.height-12, 5)
	plotWidth := max(v.width-14, 20)
	if v.showBins {
		plotHeight = max(plotHeight-len(s.Radii)-2, 5)
	}
	for _, line := range strings.Split(Plot(s, plotWidth, plotHeight, v.logValues), "\n") {
		b.WriteString("  " + line + "\n")
	}

	if v.showBins {
		b.WriteString("\n  " + accent.Render(fmt.Sprintf("%12s %14s %8s", "radius", "value", "count")) + "\n")
		for i := range s.Radii {
			count := ""
			if i < len(s.Counts) {
				count = strconv.Itoa(s.Counts[i])
			}
			b.WriteString(fmt.Sprintf("  %12.4g %14.6g %8s\n", s.Radii[i], s.Values[i], count))
		}
	}

	b.WriteString("\n  " + accent.Render("←/→") + muted.Render(" profile  ") +
		accent.Render("l") + muted.Render(" log values  ") +
		accent.Render("b") + muted.Render(" bins  ") +
		accent.Render("q") + muted.Render(" quit") + "\n")
	return b.String()
}

// RunViewer opens the viewer full screen and blocks until it is closed.
func RunViewer(series []Series, theme Theme) error {
	_, err := tea.NewProgram(NewViewer(series, theme), tea.WithAltScreen()).Run()
	return err
}
