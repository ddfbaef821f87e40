// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package scrape

import (
	"fmt"
	"io"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const tableHeading = "Параметры настройки"

var (
	leadingInt = regexp.MustCompile(`^\s*(-?\d+)`)
	anyInt     = regexp.MustCompile(`\d+`)
)

// ParseTable extracts channels from the tuning table page. Rows lacking
// tuning parameters are reported in skipped and left out.
func ParseTable(r io.Reader) (channels []Channel, skipped []error, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("parse table page: %w", err)
	}

	table := findTable(doc)
	if table == nil {
		return nil, nil, ErrTableNotFound
	}

	row := 0
	for tr := range descendants(table, atom.Tr) {
		cells := children(tr, atom.Td)
		if len(cells) != 4 {
			continue
		}
		row++
		chans, rerr := parseRow(cells)
		if rerr != nil {
			skipped = append(skipped, &RowError{Row: row, Reason: rerr.Error()})
			continue
		}
		channels = append(channels, chans...)
	}
	return channels, skipped, nil
}

func parseRow(cells []*html.Node) ([]Channel, error) {
	transponder := atoi(text(cells[0]))
	sat := atoi(text(cells[3]))

	fields := labelled(cells[2])
	freq := strings.Fields(fields.value("Частота вещания"))
	modulation := fields.value("Модуляция")
	if len(freq) == 0 || modulation == "" {
		return nil, fmt.Errorf("missing frequency or modulation")
	}
	srLabel, srValue := fields.find("Символьная")
	sr, _ := strconv.Atoi(anyInt.FindString(srLabel + " " + srValue))

	var out []Channel
	for a := range descendants(cells[1], atom.A) {
		href := attr(a, "href")
		name := clean(text(a))
		if href == "" || name == "" {
			continue
		}
		out = append(out, Channel{
			Name:        name,
			InfoURL:     href,
			Freq:        freq[0],
			Transponder: transponder,
			Sat:         sat,
			Modulation:  modulation,
			SymbolRate:  sr,
		})
	}
	return out, nil
}

// ParseInfo extracts the icon URL and description from a channel info page.
func ParseInfo(r io.Reader) (Info, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Info{}, fmt.Errorf("parse info page: %w", err)
	}

	var info Info
	for n := range descendants(doc, atom.Meta) {
		if attr(n, "property") == "og:image" {
			info.Icon = strings.TrimSpace(attr(n, "content"))
			break
		}
	}

	seenHeading := false
	for n := range descendants(doc, 0) {
		if n.DataAtom == atom.H1 {
			seenHeading = true
			continue
		}
		if seenHeading && hasClasses(n, "richtext", "channel--text") {
			info.Description = clean(text(n))
			break
		}
	}
	return info, nil
}

// findTable returns the first table following the tuning heading.
func findTable(doc *html.Node) *html.Node {
	seen := false
	for n := range descendants(doc, 0) {
		switch {
		case n.DataAtom == atom.H4 && clean(text(n)) == tableHeading:
			seen = true
		case seen && n.DataAtom == atom.Table:
			return n
		}
	}
	return nil
}

type field struct{ label, value string }

type fields []field

// labelled splits a cell into bold labels and the text that follows each.
func labelled(td *html.Node) fields {
	var out fields
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.ElementNode && (c.DataAtom == atom.B || c.DataAtom == atom.Strong):
				out = append(out, field{label: clean(text(c))})
			case c.Type == html.TextNode:
				if len(out) > 0 {
					out[len(out)-1].value += c.Data
				}
			case c.Type == html.ElementNode:
				walk(c)
			}
		}
	}
	walk(td)
	for i := range out {
		out[i].value = clean(out[i].value)
	}
	return out
}

func (fs fields) find(prefix string) (string, string) {
	for _, f := range fs {
		if strings.HasPrefix(f.label, prefix) {
			return f.label, f.value
		}
	}
	return "", ""
}

func (fs fields) value(prefix string) string {
	_, v := fs.find(prefix)
	return v
}

// descendants yields element nodes below n in document order, filtered by
// tag when a is non-zero.
func descendants(n *html.Node, a atom.Atom) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		var walk func(*html.Node) bool
		walk = func(p *html.Node) bool {
			for c := p.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (a == 0 || c.DataAtom == a) {
					if !yield(c) {
						return false
					}
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(n)
	}
}

func children(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		if p.Type == html.TextNode {
			b.WriteString(p.Data)
		}
		if p.Type == html.ElementNode && p.DataAtom == atom.Br {
			b.WriteByte(' ')
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// clean collapses whitespace, including no-break spaces, to single spaces.
func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClasses(n *html.Node, want ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	classes := strings.Fields(attr(n, "class"))
	for _, w := range want {
		if !slices.Contains(classes, w) {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	m := leadingInt.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
