// Tabular output of query results.  A command describes its columns as a map of named Formatters
// and a set of aliases; the user picks columns and an output style with a -fmt spec such as
// "month,median,csv,header".

package table

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

type PrintMods int

const (
	PrintModFixed PrintMods = 1 << iota
	PrintModJson
	PrintModCsv
	PrintModCsvNamed
	PrintModAwk
)

// MT: Immutable after initialization
type Formatter[T any] struct {
	Fmt  func(d T, ctx PrintMods) string
	Help string

	// Nonempty if this field is a renaming of the named canonical field
	AliasOf string
}

func DefAlias[T any](formatters map[string]Formatter[T], canonical, alias string) {
	f, found := formatters[canonical]
	if !found {
		panic(fmt.Sprintf("Formatter not found: %s", canonical))
	}
	f.AliasOf = canonical
	formatters[alias] = f
}

type FormatOptions struct {
	Tag    string // if not ""
	Json   bool
	Csv    bool // csv or csvnamed
	Awk    bool
	Fixed  bool
	Named  bool // csvnamed
	Header bool
}

func (fo *FormatOptions) mods() PrintMods {
	switch {
	case fo.Csv && fo.Named:
		return PrintModCsvNamed
	case fo.Csv:
		return PrintModCsv
	case fo.Json:
		return PrintModJson
	case fo.Awk:
		return PrintModAwk
	default:
		return PrintModFixed
	}
}

// Bound on the number of fields after alias expansion.
const maxFields = 100

// Split a -fmt spec into known field names (aliases expanded one level) and the set of everything
// else.  An empty spec or "help" selects the defaults; "help" is also added to the others.

func ParseFormatSpec[T any](
	defaults, spec string,
	formatters map[string]Formatter[T],
	aliases map[string][]string,
) (fields []string, others map[string]bool) {
	others = make(map[string]bool)
	if spec == "help" {
		others["help"] = true
	}
	if spec == "" || spec == "help" {
		spec = defaults
	}
	fields = make([]string, 0)
	add := func(kwd string) {
		if len(fields) < maxFields {
			fields = append(fields, kwd)
		}
	}
	for _, kwd := range strings.Split(spec, ",") {
		if kwd == "" {
			continue
		}
		if _, found := formatters[kwd]; found {
			add(kwd)
		} else if expansion, found := aliases[kwd]; found {
			for _, e := range expansion {
				if _, found := formatters[e]; found {
					add(e)
				} else {
					others[e] = true
				}
			}
		} else {
			others[kwd] = true
		}
	}
	return
}

type DefaultFormat int

const (
	DefaultFixed DefaultFormat = iota
	DefaultCsv
	DefaultJson
)

// Interpret the non-field words of a -fmt spec.  At most one of csv, json, awk and fixed is set,
// in that order of precedence, and the default applies if none were given.  Fixed output has a
// header unless "noheader" is present; csv and awk have one only if "header" is present.

func StandardFormatOptions(others map[string]bool, def DefaultFormat) *FormatOptions {
	fo := new(FormatOptions)
	fo.Named = others["csvnamed"]
	fo.Csv = others["csv"] || fo.Named
	fo.Json = others["json"] && !fo.Csv
	fo.Awk = others["awk"] && !fo.Csv && !fo.Json
	fo.Fixed = others["fixed"] && !fo.Csv && !fo.Json && !fo.Awk
	for x := range others {
		if t, ok := strings.CutPrefix(x, "tag:"); ok {
			fo.Tag = t
			break
		}
	}
	if !fo.Csv && !fo.Json && !fo.Awk && !fo.Fixed {
		switch def {
		case DefaultCsv:
			fo.Csv = true
		case DefaultJson:
			fo.Json = true
		default:
			fo.Fixed = true
		}
	}
	fo.Header = (fo.Fixed && !others["noheader"]) || ((fo.Csv || fo.Awk) && others["header"])
	return fo
}

// Any words in others that are not format controls, sorted.  Commands report these as errors.

func UnknownControls(others map[string]bool) []string {
	var bad []string
	for x := range others {
		switch x {
		case "help", "csv", "csvnamed", "json", "awk", "fixed", "header", "noheader":
		default:
			if !strings.HasPrefix(x, "tag:") {
				bad = append(bad, x)
			}
		}
	}
	slices.Sort(bad)
	return bad
}

func FormatData[T any](
	out io.Writer,
	fields []string,
	formatters map[string]Formatter[T],
	opts *FormatOptions,
	data []T,
) {
	ctx := opts.mods()

	// Column-major matrix of formatted values
	cols := make([][]string, len(fields))
	for c, f := range fields {
		fmtf := formatters[f].Fmt
		cols[c] = make([]string, len(data))
		for r, d := range data {
			cols[c][r] = fmtf(d, ctx)
		}
	}

	switch {
	case opts.Csv:
		formatCsv(out, fields, opts, cols, len(data))
	case opts.Json:
		formatJson(out, fields, opts, cols, len(data))
	case opts.Awk:
		formatAwk(out, fields, opts, cols, len(data))
	default:
		formatFixed(out, fields, opts, cols, len(data))
	}
}

func formatFixed(unbuf io.Writer, fields []string, opts *FormatOptions, cols [][]string, rows int) {
	out := Buffered(unbuf)
	defer out.Flush()

	names := slices.Clone(fields)
	if opts.Tag != "" {
		names = append(names, "tag")
		tags := make([]string, rows)
		for i := range tags {
			tags[i] = opts.Tag
		}
		cols = append(cols, tags)
	}
	widths := make([]int, len(names))
	for c := range names {
		if opts.Header {
			widths[c] = utf8.RuneCountInString(names[c])
		}
		for _, v := range cols[c] {
			widths[c] = max(widths[c], utf8.RuneCountInString(v))
		}
	}

	var line strings.Builder
	emit := func(val func(c int) string) {
		line.Reset()
		for c := range names {
			v := val(c)
			line.WriteString(v)
			line.WriteString(strings.Repeat(" ", widths[c]-utf8.RuneCountInString(v)+2))
		}
		fmt.Fprintln(out, strings.TrimRight(line.String(), " "))
	}
	if opts.Header {
		emit(func(c int) string { return names[c] })
	}
	for r := 0; r < rows; r++ {
		emit(func(c int) string { return cols[c][r] })
	}
}

func formatCsv(out io.Writer, fields []string, opts *FormatOptions, cols [][]string, rows int) {
	w := csv.NewWriter(out)
	defer w.Flush()

	if opts.Header {
		hdr := slices.Clone(fields)
		if opts.Tag != "" {
			hdr = append(hdr, "tag")
		}
		w.Write(hdr)
	}
	rec := make([]string, 0, len(fields)+1)
	for r := 0; r < rows; r++ {
		rec = rec[:0]
		for c, f := range fields {
			if opts.Named {
				rec = append(rec, f+"="+cols[c][r])
			} else {
				rec = append(rec, cols[c][r])
			}
		}
		if opts.Tag != "" {
			if opts.Named {
				rec = append(rec, "tag="+opts.Tag)
			} else {
				rec = append(rec, opts.Tag)
			}
		}
		w.Write(rec)
	}
}

// All values are emitted as JSON strings, like the other formats emit text.
func formatJson(unbuf io.Writer, fields []string, opts *FormatOptions, cols [][]string, rows int) {
	out := Buffered(unbuf)
	defer out.Flush()

	out.WriteString("[")
	for r := 0; r < rows; r++ {
		if r > 0 {
			out.WriteString(",")
		}
		out.WriteString("{")
		for c, f := range fields {
			if c > 0 {
				out.WriteString(",")
			}
			out.WriteString(strconv.Quote(f))
			out.WriteString(":")
			out.WriteString(strconv.Quote(cols[c][r]))
		}
		if opts.Tag != "" {
			if len(fields) > 0 {
				out.WriteString(",")
			}
			out.WriteString(`"tag":`)
			out.WriteString(strconv.Quote(opts.Tag))
		}
		out.WriteString("}")
	}
	out.WriteString("]\n")
}

// Space-separated fields; spaces inside a field become "_" and empty fields become ".".
func formatAwk(unbuf io.Writer, fields []string, opts *FormatOptions, cols [][]string, rows int) {
	out := Buffered(unbuf)
	defer out.Flush()

	awk := func(s string) string {
		if s == "" {
			return "."
		}
		return strings.ReplaceAll(s, " ", "_")
	}
	var vals []string
	if opts.Header {
		for _, f := range fields {
			vals = append(vals, awk(f))
		}
		if opts.Tag != "" {
			vals = append(vals, "tag")
		}
		fmt.Fprintln(out, strings.Join(vals, " "))
	}
	for r := 0; r < rows; r++ {
		vals = vals[:0]
		for c := range fields {
			vals = append(vals, awk(cols[c][r]))
		}
		if opts.Tag != "" {
			vals = append(vals, awk(opts.Tag))
		}
		fmt.Fprintln(out, strings.Join(vals, " "))
	}
}

func Buffered(w io.Writer) *bufio.Writer {
	if b, ok := w.(*bufio.Writer); ok {
		return b
	}
	return bufio.NewWriter(w)
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Help.

type FormatHelp struct {
	Text     string
	Fields   []string
	Helps    map[string]string
	Aliases  map[string][]string
	Defaults string
}

// Non-nil only if spec is "help".

func StandardFormatHelp[T any](
	spec, helpText string,
	formatters map[string]Formatter[T],
	aliases map[string][]string,
	defaults string,
) *FormatHelp {
	if spec != "help" {
		return nil
	}
	h := &FormatHelp{
		Text:     helpText,
		Helps:    make(map[string]string),
		Aliases:  maps.Clone(aliases),
		Defaults: defaults,
	}
	for k, f := range formatters {
		if f.AliasOf != "" {
			h.Aliases[k] = []string{f.AliasOf}
		} else {
			h.Fields = append(h.Fields, k)
			h.Helps[k] = f.Help
		}
	}
	slices.Sort(h.Fields)
	return h
}

func PrintFormatHelp(out io.Writer, h *FormatHelp) {
	if h == nil {
		return
	}
	fmt.Fprintln(out, h.Text)
	fmt.Fprintln(out, "Syntax:\n  -fmt=(field|alias|control),...")
	fmt.Fprintln(out, "\nFields:")
	for _, f := range h.Fields {
		fmt.Fprintf(out, "  %s - %s\n", f, h.Helps[f])
	}
	if len(h.Aliases) > 0 {
		fmt.Fprintln(out, "\nAliases:")
		for _, k := range slices.Sorted(maps.Keys(h.Aliases)) {
			// The expansion order matters, do not sort it
			fmt.Fprintf(out, "  %s --> %s\n", k, strings.Join(h.Aliases[k], ","))
		}
	}
	fmt.Fprintf(out, "\nDefaults:\n  %s\n", h.Defaults)
	fmt.Fprint(out, "\nControl:\n  awk\n  csv\n  csvnamed\n  fixed\n  json\n  header\n  noheader\n  tag:<tagvalue>\n")
}
