// Package report renders analyses and start rankings as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleBest   = styleCell.Foreground(colorGreen).Bold(true)
	styleFailed = styleCell.Foreground(colorRed)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// headerRow is the row index lipgloss passes to StyleFunc for the header.
const headerRow = -1

// Analysis renders the track list, every transition with its cost breakdown and the
// comparison against alternative orderings.
func Analysis(a services.Analysis) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(a.Name))
	b.WriteString("\n")
	b.WriteString(Tracks(a.Tracks))
	b.WriteString("\n")

	if len(a.Transitions) > 0 {
		b.WriteString(styleTitle.Render("Transitions"))
		b.WriteString("\n")
		b.WriteString(transitions(a))
		b.WriteString("\n")
	}

	b.WriteString(summary(a))
	b.WriteString("\n")
	return b.String()
}

// Tracks renders one row per track in order.
func Tracks(tracks []domain.Track) string {
	rows := make([][]string, len(tracks))
	for i, t := range tracks {
		f := t.Features
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			t.Title,
			t.Artist,
			fmt.Sprintf("%.0f", f.Tempo),
			f.KeyName() + " " + f.ModeName(),
			fmt.Sprintf("%.2f", f.Energy),
			fmt.Sprintf("%.2f", f.Danceability),
		}
	}
	return newTable(rows, nil, "#", "Title", "Artist", "BPM", "Key", "Energy", "Dance").Render()
}

func transitions(a services.Analysis) string {
	titles := make(map[string]string, len(a.Tracks))
	for _, t := range a.Tracks {
		titles[t.ID] = t.Title
	}
	rows := make([][]string, len(a.Transitions))
	for i, tr := range a.Transitions {
		bd := tr.Breakdown
		rows[i] = []string{
			titles[tr.FromID] + " → " + titles[tr.ToID],
			cost(bd.Tempo),
			cost(bd.Energy),
			cost(bd.Danceability),
			cost(bd.Key),
			cost(bd.Mode),
			cost(bd.Total),
		}
	}
	return newTable(rows, nil, "Transition", "Tempo", "Energy", "Dance", "Key", "Mode", "Cost").Render()
}

func summary(a services.Analysis) string {
	rows := [][]string{
		{"total", cost(a.Total), ""},
		{"average per transition", cost(a.Average), ""},
	}
	for _, alt := range a.Alternatives {
		saved, _ := a.Savings(alt.Label)
		rows = append(rows, []string{alt.Label, cost(alt.Cost), signed(saved)})
	}
	return newTable(rows, nil, "Ordering", "Cost", "Saved").Render()
}

// Ranking renders the outcome of a best-start search, one row per start track.
func Ranking(r services.StartRanking) string {
	rows := make([][]string, len(r.Outcomes))
	for i, oc := range r.Outcomes {
		if oc.Err != nil {
			rows[i] = []string{oc.Start.Title, "-", oc.Err.Error()}
			continue
		}
		rows[i] = []string{oc.Start.Title, cost(oc.Result.Cost), orderTitles(oc.Result.Order)}
	}
	style := func(row, _ int) lipgloss.Style {
		if row >= len(r.Outcomes) {
			return styleCell
		}
		oc := r.Outcomes[row]
		switch {
		case oc.Err != nil:
			return styleFailed
		case oc.Start.ID == r.Best.Start.ID:
			return styleBest
		}
		return styleCell
	}
	return newTable(rows, style, "Start", "Cost", "Order").Render()
}

// Playlists renders a stored playlist listing.
func Playlists(pls []domain.Playlist) string {
	rows := make([][]string, len(pls))
	for i, p := range pls {
		rows[i] = []string{
			p.ID,
			p.Name,
			fmt.Sprintf("%d", len(p.Tracks)),
			cost(p.Cost),
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
	}
	return newTable(rows, nil, "ID", "Name", "Tracks", "Cost", "Created").Render()
}

// Order writes one numbered line per track.
func Order(w io.Writer, order []domain.Track) error {
	for i, t := range order {
		if _, err := fmt.Fprintf(w, "%s %s\n", styleDim.Render(fmt.Sprintf("%2d.", i+1)), t); err != nil {
			return err
		}
	}
	return nil
}

func newTable(rows [][]string, style func(row, col int) lipgloss.Style, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			if style != nil {
				return style(row, col)
			}
			return styleCell
		})
}

func orderTitles(order []domain.Track) string {
	titles := make([]string, len(order))
	for i, t := range order {
		titles[i] = t.Title
	}
	return strings.Join(titles, " → ")
}

func cost(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

func signed(v float64) string {
	return fmt.Sprintf("%+.4f", v)
}
