package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/Ning0612/Dirdiff/internal/domain"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name (case-insensitive)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Options controls rendering
type Options struct {
	Format Format
	Roots  []string
	Stats  domain.DiffStats
}

// Document is the structured form written for json and yaml output
type Document struct {
	Roots   []string `json:"roots" yaml:"roots"`
	Records []Record `json:"records" yaml:"records"`
	Summary Summary  `json:"summary" yaml:"summary"`
}

// Record is one differing path
type Record struct {
	Path    string   `json:"path" yaml:"path"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Column is one root's entry for a record.
// State is "absent" or the entry kind; the remaining fields depend on it.
type Column struct {
	Root  string `json:"root" yaml:"root"`
	State string `json:"state" yaml:"state"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Size  *int64 `json:"size,omitempty" yaml:"size,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary mirrors domain.DiffStats
type Summary struct {
	Roots       int `json:"roots" yaml:"roots"`
	Differences int `json:"differences" yaml:"differences"`
	Missing     int `json:"missing" yaml:"missing"`
	Changed     int `json:"changed" yaml:"changed"`
}

const stateAbsent = "absent"

// NewDocument converts records into their structured form
func NewDocument(records []domain.DiffRecord, opts Options) Document {
	doc := Document{
		Roots:   opts.Roots,
		Records: make([]Record, 0, len(records)),
		Summary: Summary{
			Roots:       opts.Stats.Roots,
			Differences: opts.Stats.Records,
			Missing:     opts.Stats.Missing,
			Changed:     opts.Stats.Changed,
		},
	}
	if doc.Roots == nil {
		doc.Roots = []string{}
	}

	for _, r := range records {
		rec := Record{Path: r.Path, Columns: make([]Column, 0, len(r.Columns))}
		for _, c := range r.Columns {
			rec.Columns = append(rec.Columns, newColumn(c))
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc
}

func newColumn(c domain.Column) Column {
	col := Column{Root: c.Root}
	if c.Absent() {
		col.State = stateAbsent
		return col
	}

	e := c.Entry
	col.State = e.Kind.String()
	switch e.Kind {
	case domain.EntryMetadata:
		col.Type = e.FileType.String()
		if e.FileType != domain.FileTypeDirectory {
			size := e.Size
			col.Size = &size
		}
	case domain.EntryMetadataError, domain.EntryIOError:
		col.Error = e.ErrKind.String()
	}
	return col
}

// Write renders records to w in the requested format
func Write(w io.Writer, records []domain.DiffRecord, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(records, opts)); err != nil {
			return fmt.Errorf("failed to encode json report: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(records, opts)); err != nil {
			return fmt.Errorf("failed to encode yaml report: %w", err)
		}
		return enc.Close()

	case FormatText, "":
		return writeText(w, records, opts)

	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

func writeText(w io.Writer, records []domain.DiffRecord, opts Options) error {
	var b strings.Builder

	if len(opts.Roots) > 0 {
		b.WriteString("Comparing:\n")
		for i, root := range opts.Roots {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, root)
		}
		b.WriteString("\n")
	}

	for _, r := range records {
		fmt.Fprintf(&b, "%s\n", DisplayPath(r.Path))
		for i, c := range r.Columns {
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, Describe(c.Entry))
		}
	}

	if len(records) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(SummaryLine(opts.Stats))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// DisplayPath renders a relative path for humans; the root itself shows as "/"
func DisplayPath(rel string) string {
	if rel == domain.RootPath {
		return "/"
	}
	return "/" + rel
}

// Describe renders one column's entry for text output
func Describe(e *domain.Entry) string {
	if e == nil {
		return stateAbsent
	}
	if e.Kind == domain.EntryMetadata && e.FileType != domain.FileTypeDirectory {
		return fmt.Sprintf("%s, %s", e.FileType, humanize.IBytes(uint64(e.Size)))
	}
	return e.String()
}

// SummaryLine renders the final one-line summary
func SummaryLine(s domain.DiffStats) string {
	if s.Records == 0 {
		return fmt.Sprintf("No differences across %d roots.", s.Roots)
	}
	return fmt.Sprintf("%d %s across %d roots (%d missing, %d changed)",
		s.Records, plural(s.Records, "difference", "differences"), s.Roots, s.Missing, s.Changed)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
