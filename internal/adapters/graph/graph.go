// Package graph draws the transition graph of a track set: every pair of tracks joined
// by its transition cost, with an ordering highlighted.
package graph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// Format names a graph output.
type Format string

const (
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatSVG     Format = "svg"
)

// ParseFormat accepts "dot", "mermaid" or "svg".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatMermaid, FormatSVG:
		return f, nil
	case "":
		return FormatDOT, nil
	}
	return "", fmt.Errorf("graph: unknown format %q", s)
}

// ContentType is the MIME type of a rendered graph.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

const (
	startColor = "lightgreen"
	endColor   = "lightpink"
	nodeColor  = "lightblue"
	pathColor  = "red"
)

// pathEdges indexes consecutive pairs of order in both directions.
func pathEdges(order []domain.Track) map[[2]string]bool {
	on := make(map[[2]string]bool, 2*len(order))
	for i := 0; i+1 < len(order); i++ {
		a, b := order[i].ID, order[i+1].ID
		on[[2]string{a, b}] = true
		on[[2]string{b, a}] = true
	}
	return on
}

func nodeFill(t domain.Track, order []domain.Track) string {
	switch {
	case len(order) > 0 && order[0].ID == t.ID:
		return startColor
	case len(order) > 0 && order[len(order)-1].ID == t.ID:
		return endColor
	}
	return nodeColor
}

// ToDOT renders the complete undirected graph over order in Graphviz DOT. Edges are
// labelled with their cost; edges on the ordering are drawn in red.
func ToDOT(model sequencer.CostModel, order []domain.Track) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=circo;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=9, color=gray];\n")
	buf.WriteString("\n")

	for _, t := range order {
		label := t.Title
		if label == "" {
			label = t.ID
		}
		label += fmt.Sprintf("\n%.0f BPM, %s %s", t.Features.Tempo, t.Features.KeyName(), t.Features.ModeName())
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n", t.ID, label, nodeFill(t, order))
	}

	buf.WriteString("\n")
	on := pathEdges(order)
	for i, a := range order {
		for _, b := range order[i+1:] {
			attrs := []string{fmt.Sprintf("label=\"%.3f\"", model.Cost(a, b))}
			if on[[2]string{a.ID, b.ID}] {
				attrs = append(attrs, "color="+pathColor, "penwidth=3", "fontcolor="+pathColor)
			}
			fmt.Fprintf(&buf, "  %q -- %q [%s];\n", a.ID, b.ID, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToMermaid renders the same graph as a Mermaid flowchart. The ordering is drawn with
// thick arrows in sequence; the remaining pairs are plain links.
func ToMermaid(model sequencer.CostModel, order []domain.Track) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	node := make(map[string]string, len(order))
	for i, t := range order {
		id := fmt.Sprintf("n%d", i)
		node[t.ID] = id
		label := strings.ReplaceAll(t.String(), `"`, "#quot;")
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, label)
	}

	for i := 0; i+1 < len(order); i++ {
		fmt.Fprintf(&b, "    %s ==>|%.3f| %s\n", node[order[i].ID], model.Cost(order[i], order[i+1]), node[order[i+1].ID])
	}
	on := pathEdges(order)
	for i, x := range order {
		for _, y := range order[i+1:] {
			if on[[2]string{x.ID, y.ID}] {
				continue
			}
			fmt.Fprintf(&b, "    %s ---|%.3f| %s\n", node[x.ID], model.Cost(x, y), node[y.ID])
		}
	}

	if len(order) > 0 {
		fmt.Fprintf(&b, "    style %s fill:%s\n", node[order[0].ID], startColor)
		if len(order) > 1 {
			fmt.Fprintf(&b, "    style %s fill:%s\n", node[order[len(order)-1].ID], endColor)
		}
	}
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graph: init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("graph: parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("graph: render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render produces the graph in the requested format.
func Render(ctx context.Context, format Format, model sequencer.CostModel, order []domain.Track) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(ToDOT(model, order)), nil
	case FormatMermaid:
		return []byte(ToMermaid(model, order)), nil
	case FormatSVG:
		return RenderSVG(ctx, ToDOT(model, order))
	}
	return nil, fmt.Errorf("graph: unknown format %q", format)
}
