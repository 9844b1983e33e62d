package view

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ppiankov/mucprep/internal/model"
)

// Selection is the set of documents to show, in id order
type Selection struct {
	IDs       []string
	Docs      model.RawDocuments
	Templates model.TemplatesByDoc
}

// Select filters documents by incident type (case-insensitive, keeping
// only matching templates) and, unless keepIrrelevant is set, drops
// documents whose only template is the no-incident sentinel
func Select(docs model.RawDocuments, keys model.TemplatesByDoc, templateType string, keepIrrelevant bool) (*Selection, error) {
	selected := make(model.TemplatesByDoc, len(keys))
	for id, templates := range keys {
		if templateType != "" {
			var matching []*model.Template
			for _, t := range templates {
				if strings.EqualFold(t.IncidentType, templateType) {
					matching = append(matching, t)
				}
			}
			if len(matching) == 0 {
				continue
			}
			templates = matching
		}
		if !keepIrrelevant && len(templates) == 1 && templates[0].IsSentinel() {
			continue
		}
		selected[id] = templates
	}

	var ids []string
	if keepIrrelevant && templateType == "" {
		for id := range docs {
			ids = append(ids, id)
		}
	} else {
		for id := range selected {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := docs[id]; !ok {
			return nil, fmt.Errorf("document %s has templates but no text", id)
		}
	}

	return &Selection{IDs: ids, Docs: docs, Templates: selected}, nil
}

// Banner describes the selection
func (s *Selection) Banner(templateType string, keepIrrelevant bool) string {
	switch {
	case templateType != "":
		return fmt.Sprintf("Visualizing %d documents annotated with %s templates...", len(s.IDs), templateType)
	case keepIrrelevant:
		return fmt.Sprintf("Visualizing %d documents, including those without annotated templates...", len(s.IDs))
	default:
		return fmt.Sprintf("Visualizing %d documents...", len(s.IDs))
	}
}

// Dump prints every selected document
func (s *Selection) Dump(p *Printer) {
	for _, id := range s.IDs {
		p.PrintDocument(s.Docs[id].DocID, s.Docs[id].Text, s.Templates[id])
	}
}

// Viewer pages through a selection one document at a time
type Viewer struct {
	sel     *Selection
	in      *bufio.Reader
	out     io.Writer
	printer *Printer
}

// NewViewer creates a viewer reading commands from in; documents and
// prompts go to out through p
func NewViewer(sel *Selection, in io.Reader, out io.Writer, p *Printer) *Viewer {
	return &Viewer{
		sel:     sel,
		in:      bufio.NewReader(in),
		out:     out,
		printer: p,
	}
}

const prompt = "\n(n): next (p): previous (q): quit (g <id>): go to document <id> \n> "

// Run shows the first document and handles commands until "q" or end of input
func (v *Viewer) Run() error {
	if len(v.sel.IDs) == 0 {
		return nil
	}

	index := make(map[string]int, len(v.sel.IDs))
	for i, id := range v.sel.IDs {
		index[id] = i
	}

	cur := 0
	for {
		id := v.sel.IDs[cur]
		v.printer.PrintDocument(v.sel.Docs[id].DocID, v.sel.Docs[id].Text, v.sel.Templates[id])

		fmt.Fprint(v.out, prompt)
		line, err := v.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read command: %w", err)
		}
		cmd := strings.TrimRight(line, "\r\n")

		switch {
		case cmd == "q":
			return nil
		case cmd == "p":
			if cur == 0 {
				fmt.Fprintln(v.out, "This is the first document: No previous document to view!")
			} else {
				cur--
			}
		case cmd == "n":
			if cur == len(v.sel.IDs)-1 {
				fmt.Fprintln(v.out, "This is the last document: no more documents to view!")
			} else {
				cur++
			}
		case strings.HasPrefix(cmd, "g "):
			target := strings.TrimSpace(cmd[2:])
			i, ok := index[target]
			if !ok {
				fmt.Fprintf(v.out, "Unrecognized document ID %s!\n", target)
			} else {
				cur = i
			}
		}
	}
}
