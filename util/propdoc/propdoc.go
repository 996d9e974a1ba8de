// Extract prop declarations from lockset-* comments and render them as documentation and default value code.
//
// For example:
//
//	// lockset-section: Benchmark Configuration
//	const (
//
//		// lockset-prop: initial table capacity | 16
//		PropBenchCapacity = "bench.capacity"
//
//		// lockset-prop: old name of the prop
//		// lockset-alias: bench.initial-capacity | v0.1.0
//		PropBenchInitCapacity = "bench.init-capacity"
//	)
package propdoc

import (
	"go/parser"
	"go/token"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/curtisnewbie/lockset/util/errs"
	"github.com/curtisnewbie/lockset/util/tableutil"
	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"github.com/dave/dst/dstutil"
)

const (
	TagPrefix = "lockset-"

	TableEmbedStart   = "<!-- lockset-table-start -->"
	TableEmbedEnd     = "<!-- lockset-table-end -->"
	DefaultEmbedStart = "// lockset-default-start"
	DefaultEmbedEnd   = "// lockset-default-end"

	tagSection = "section"
	tagProp    = "prop"
	tagAlias   = "alias"
	tagDocOnly = "doc-only"

	generalSection = "General"
)

var (
	digits    = regexp.MustCompile(`^-?[0-9]+$`)
	codeBlock = regexp.MustCompile("^`(.*)`$")
)

type Tag struct {
	Command string
	Body    string
}

// Split body by the first tok, both parts are trimmed.
func (t Tag) Split(tok string) (string, string) {
	k, v, _ := strings.Cut(t.Body, tok)
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

type Decl struct {
	Source       string
	Package      string
	Name         string
	ConstName    string
	Description  string
	DefaultValue string
	Alias        string
	AliasSince   string
	DocOnly      bool
}

type Section struct {
	Name  string
	Decls []Decl
}

// Parse lockset-* tags in comment lines, lines without the prefix are ignored.
func ParseTags(lines []string) []Tag {
	t := []Tag{}
	for _, s := range lines {
		s = strings.TrimSpace(s)
		s, _ = strings.CutPrefix(s, "//")
		s = strings.TrimSpace(s)
		m, ok := strings.CutPrefix(s, TagPrefix)
		if !ok {
			continue
		}
		if cmd, body, found := strings.Cut(m, ":"); found {
			t = append(t, Tag{Command: strings.TrimSpace(cmd), Body: strings.TrimSpace(body)})
		} else {
			m = strings.TrimSpace(m)
			t = append(t, Tag{Command: m, Body: m})
		}
	}
	return t
}

// Parse go source file and collect tagged prop declarations.
//
// src is passed to parser.ParseFile, if it's nil, the file is read from path.
func ParseFile(path string, src any) ([]Section, error) {
	f, err := decorator.ParseFile(token.NewFileSet(), path, src, parser.ParseComments)
	if err != nil {
		return nil, errs.WrapErrf(err, "failed to parse %v", path)
	}

	var (
		section string
		order   []string
		decls   = map[string][]Decl{}
	)
	dstutil.Apply(f, func(c *dstutil.Cursor) bool {
		switch n := c.Node().(type) {
		case *dst.GenDecl:
			for _, t := range ParseTags(n.Decs.Start) {
				if t.Command == tagSection {
					section = t.Body
				}
			}
		case *dst.ValueSpec:
			d, ok := parseDecl(n, path, f.Name.Name)
			if !ok {
				return true
			}
			sec := section
			if sec == "" {
				sec = generalSection
			}
			if _, seen := decls[sec]; !seen {
				order = append(order, sec)
			}
			decls[sec] = append(decls[sec], d)
		}
		return true
	}, nil)

	sections := make([]Section, 0, len(order))
	for _, name := range order {
		sections = append(sections, Section{Name: name, Decls: decls[name]})
	}
	return sections, nil
}

func parseDecl(n *dst.ValueSpec, path string, pkg string) (Decl, bool) {
	tags := ParseTags(n.Decs.Start)
	if len(tags) < 1 {
		return Decl{}, false
	}

	d := Decl{Source: path, Package: pkg}
	for _, id := range n.Names {
		d.ConstName = id.Name
	}
	found := false
	for _, t := range tags {
		switch t.Command {
		case tagProp:
			found = true
			d.Description, d.DefaultValue = t.Split("|")
		case tagAlias:
			found = true
			d.Alias, d.AliasSince = t.Split("|")
		case tagDocOnly:
			d.DocOnly = true
		}
	}
	if !found {
		return Decl{}, false
	}

	for _, v := range n.Values {
		if bl, ok := v.(*dst.BasicLit); ok && bl.Kind == token.STRING {
			if s, err := strconv.Unquote(bl.Value); err == nil {
				d.Name = s
			}
		}
	}
	return d, d.Name != ""
}

// Sort sections by name, sections named "Common" or "General" come first.
func SortSections(sections []Section) {
	prioritised := func(n string) bool {
		return strings.Contains(n, "Common") || strings.Contains(n, generalSection)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		pi, pj := prioritised(sections[i].Name), prioritised(sections[j].Name)
		if pi != pj {
			return pi
		}
		return sections[i].Name < sections[j].Name
	})
}

// Render sections as markdown tables, props without description are skipped.
func Markdown(sections []Section) string {
	header := []string{"property", "description", "default value"}
	b := strings.Builder{}
	for _, sec := range sections {
		rows := [][]string{}
		for _, d := range sec.Decls {
			if d.Description == "" {
				continue
			}
			rows = append(rows, []string{d.Name, d.Description, d.DefaultValue})
		}
		if len(rows) < 1 {
			continue
		}

		w := tableutil.ColWidths(header, rows)
		line := func(cells []string) {
			b.WriteString("|")
			for i, c := range cells {
				b.WriteString(" " + tableutil.PadSpace(-w[i], c) + " |")
			}
			b.WriteString("\n")
		}

		b.WriteString("\n## " + sec.Name + "\n\n")
		line(header)
		sep := make([]string, len(header))
		for i := range sep {
			sep[i] = strings.Repeat("-", max(w[i], 3))
		}
		line(sep)
		for _, r := range rows {
			line(r)
		}
	}
	return b.String()
}

// Render init func registering the default values, pkgPrefix is prepended to SetDefProp and RegisterAlias calls.
//
// Returns false if none of the decls has default value or alias.
func DefaultsFunc(decls []Decl, pkgPrefix string) (string, bool) {
	skip := func(d Decl) bool { return (d.DefaultValue == "" && d.Alias == "") || d.DocOnly }

	lines := []string{}
	for _, d := range decls {
		if skip(d) || d.Alias == "" {
			continue
		}
		lines = append(lines, pkgPrefix+"RegisterAlias("+d.ConstName+", "+strconv.Quote(d.Alias)+")")
	}
	for _, d := range decls {
		if skip(d) || d.DefaultValue == "" {
			continue
		}
		lines = append(lines, pkgPrefix+"SetDefProp("+d.ConstName+", "+literal(d.DefaultValue)+")")
	}
	if len(lines) < 1 {
		return "", false
	}
	return "func init() {\n\t" + strings.Join(lines, "\n\t") + "\n}", true
}

func literal(dv string) string {
	lower := strings.ToLower(dv)
	switch {
	case lower == "true" || lower == "false":
		return lower
	case digits.MatchString(dv):
		return dv
	case codeBlock.MatchString(dv):
		return codeBlock.FindStringSubmatch(dv)[1]
	case len(dv) > 1 && dv[0] == '"' && dv[len(dv)-1] == '"':
		return dv
	}
	return strconv.Quote(dv)
}

// Replace lines between the start and end marker lines with embedded.
//
// Returns false if either marker is missing.
func Embed(contents string, embedded string, start string, end string) (string, bool) {
	startOffset, endOffset := -1, -1
	lines := strings.Split(contents, "\n")
	for i, l := range lines {
		switch strings.TrimSpace(l) {
		case start:
			startOffset = i
		case end:
			endOffset = i
		}
	}
	if startOffset < 0 || endOffset < startOffset {
		return "", false
	}
	before := strings.Join(lines[:startOffset+1], "\n")
	after := strings.Join(lines[endOffset:], "\n")
	return before + "\n" + embedded + "\n\n" + after, true
}
