package codegen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// MarkerPrefix introduces an insertion directive on a line of its own.
const MarkerPrefix = "// ArduHome "

// Marker returns the directive line (without newline) for point.
func Marker(point string) string {
	return MarkerPrefix + point
}

// ParseMarker reports whether line is an insertion directive and returns the
// referenced point name. Surrounding whitespace is ignored.
func ParseMarker(line string) (string, bool) {
	name, ok := strings.CutPrefix(strings.TrimSpace(line), MarkerPrefix)
	if !ok {
		return "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}

// Resolve streams template to sink, expanding every marker line.
//
// For a marker referencing point P the output is
//
//	// ArduHome P begin
//	<fragment 1, itself resolved>
//	<blank line>
//	...
//	// ArduHome P end
//
// Lines that are not markers are copied verbatim. A point with no fragments
// expands to an empty begin/end pair. Expanding a point from within its own
// expansion fails with a *CycleError.
func (t *Table) Resolve(template io.Reader, sink io.Writer) error {
	r := &resolver{table: t, w: sink}
	return r.resolve(template)
}

// ResolveString is Resolve for in-memory templates.
func (t *Table) ResolveString(template string) (string, error) {
	var sb strings.Builder
	if err := t.Resolve(strings.NewReader(template), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type resolver struct {
	table *Table
	w     io.Writer
	stack []string // points currently being expanded, outermost first
}

func (r *resolver) resolve(src io.Reader) error {
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if werr := r.line(line); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading template: %w", err)
		}
	}
}

func (r *resolver) line(line string) error {
	point, ok := ParseMarker(line)
	if !ok {
		return r.write(line)
	}

	if slices.Contains(r.stack, point) {
		path := append(slices.Clone(r.stack), point)
		return &CycleError{Path: path[slices.Index(path, point):]}
	}

	directive := strings.TrimSpace(line)
	if err := r.write(directive + " begin\n"); err != nil {
		return err
	}

	r.stack = append(r.stack, point)
	frags, _ := r.table.Get(point)
	for _, frag := range frags {
		if err := r.resolve(strings.NewReader(frag.Text)); err != nil {
			return err
		}
		if !strings.HasSuffix(frag.Text, "\n") {
			if err := r.write("\n"); err != nil {
				return err
			}
		}
		if err := r.write("\n"); err != nil {
			return err
		}
	}
	r.stack = r.stack[:len(r.stack)-1]

	return r.write(directive + " end\n")
}

func (r *resolver) write(s string) error {
	if _, err := io.WriteString(r.w, s); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
