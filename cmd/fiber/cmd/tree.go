package cmd

import (
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/muesli/termenv"

	"github.com/go-drift/fiber/pkg/host/memhost"
)

// treeWriter prints a host tree as indented markup. An element whose only
// child is a text node is printed on one line.
type treeWriter struct {
	out  *termenv.Output
	tag  termenv.Color
	attr termenv.Color
	text termenv.Color
}

func newTreeWriter(out *termenv.Output) *treeWriter {
	return &treeWriter{
		out:  out,
		tag:  out.Color("#818cf8"),
		attr: out.Color("#f472b6"),
		text: out.Color("#a3e635"),
	}
}

func (w *treeWriter) write(el *memhost.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	if el.Kind() == memhost.TextNode {
		fmt.Fprintf(w.out, "%s%s\n", indent, w.textNode(el))
		return
	}

	open, closing := w.openTag(el), w.paint("</"+el.Tag()+">", w.tag)
	switch {
	case el.ChildCount() == 0:
		fmt.Fprintf(w.out, "%s%s%s\n", indent, open, closing)
	case el.ChildCount() == 1 && el.Child(0).Kind() == memhost.TextNode:
		fmt.Fprintf(w.out, "%s%s%s%s\n", indent, open, w.textNode(el.Child(0)), closing)
	default:
		fmt.Fprintf(w.out, "%s%s\n", indent, open)
		for _, child := range el.Children() {
			w.write(child, depth+1)
		}
		fmt.Fprintf(w.out, "%s%s\n", indent, closing)
	}
}

func (w *treeWriter) openTag(el *memhost.Element) string {
	var sb strings.Builder
	sb.WriteString(w.paint("<"+el.Tag(), w.tag))
	props := el.Props()
	for _, key := range slices.Sorted(maps.Keys(props)) {
		v := props[key]
		if v == nil {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(w.paint(key, w.attr))
		fmt.Fprintf(&sb, "=%q", html.EscapeString(fmt.Sprint(v)))
	}
	sb.WriteString(w.paint(">", w.tag))
	return sb.String()
}

func (w *treeWriter) textNode(el *memhost.Element) string {
	return w.paint(html.EscapeString(el.Text()), w.text)
}

func (w *treeWriter) paint(s string, c termenv.Color) string {
	return w.out.String(s).Foreground(c).String()
}
