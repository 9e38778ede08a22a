package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"
)

var (
	placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)
	paragraph   = regexp.MustCompile(`(?s)<w:p[\s>].*?</w:p>`)
	textNode    = regexp.MustCompile(`<w:t(?:\s[^>]*)?>([^<]*)</w:t>`)
)

// DocxRenderer substitutes {{FieldName}} placeholders in the XML parts of a
// Word document. Placeholders are matched against the joined text of each
// paragraph, so one that Word split across several runs is still found; the
// value is written into the run holding the opening braces and the rest of
// the placeholder is removed from the runs that follow.
type DocxRenderer struct{}

// Render returns the document with placeholders replaced and the sorted,
// de-duplicated names of placeholders that had no field.
func (DocxRenderer) Render(template []byte, fields Fields) ([]byte, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, nil, fmt.Errorf("open docx: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	missing := map[string]struct{}{}

	for _, f := range zr.File {
		if !isWordPart(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, nil, fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}

		content, err := readEntry(f)
		if err != nil {
			return nil, nil, err
		}

		out := eachParagraph(content, func(seg []byte) []byte {
			return substitute(seg, fields, missing)
		})

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Comment:  f.Comment,
			Method:   f.Method,
			Modified: f.Modified,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		if _, err := w.Write(out); err != nil {
			return nil, nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("close docx: %w", err)
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	slices.Sort(names)

	return buf.Bytes(), names, nil
}

// Placeholders lists the sorted, de-duplicated placeholder names found in
// the template's XML parts.
func (DocxRenderer) Placeholders(template []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}

	seen := map[string]struct{}{}
	for _, f := range zr.File {
		if !isWordPart(f.Name) {
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		eachParagraph(content, func(seg []byte) []byte {
			_, text := textRuns(seg)
			for _, m := range placeholder.FindAllSubmatch(text, -1) {
				seen[string(m[1])] = struct{}{}
			}
			return seg
		})
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func isWordPart(name string) bool {
	ok, _ := path.Match("word/*.xml", name)
	return ok
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// eachParagraph applies fn to every paragraph of content and to the
// stretches between paragraphs, and joins the results.
func eachParagraph(content []byte, fn func(seg []byte) []byte) []byte {
	var b bytes.Buffer
	last := 0
	for _, m := range paragraph.FindAllIndex(content, -1) {
		b.Write(fn(content[last:m[0]]))
		b.Write(fn(content[m[0]:m[1]]))
		last = m[1]
	}
	b.Write(fn(content[last:]))
	return b.Bytes()
}

// textRun is the byte range of one <w:t> element's text within a segment.
type textRun struct {
	start, end int
}

func textRuns(seg []byte) ([]textRun, []byte) {
	var runs []textRun
	var text []byte
	for _, m := range textNode.FindAllSubmatchIndex(seg, -1) {
		runs = append(runs, textRun{start: m[2], end: m[3]})
		text = append(text, seg[m[2]:m[3]]...)
	}
	return runs, text
}

// substitute replaces the placeholders found in the joined run text of seg.
// Runs keep their markup; only their text changes.
func substitute(seg []byte, fields Fields, missing map[string]struct{}) []byte {
	runs, text := textRuns(seg)
	matches := placeholder.FindAllSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return seg
	}

	// offs[i] is where run i starts in text.
	offs := make([]int, len(runs)+1)
	for i, r := range runs {
		offs[i+1] = offs[i] + r.end - r.start
	}

	out := make([][]byte, len(runs))
	keep := func(from, to int) {
		for i := range runs {
			lo, hi := max(from, offs[i]), min(to, offs[i+1])
			if lo < hi {
				out[i] = append(out[i], text[lo:hi]...)
			}
		}
	}

	pos, changed := 0, false
	for _, m := range matches {
		name := string(text[m[2]:m[3]])
		v, ok := fields[name]
		if !ok {
			missing[name] = struct{}{}
			continue
		}

		keep(pos, m[0])
		owner := 0
		for owner+1 < len(runs) && offs[owner+1] <= m[0] {
			owner++
		}
		var esc bytes.Buffer
		_ = xml.EscapeText(&esc, []byte(v.Format()))
		out[owner] = append(out[owner], esc.Bytes()...)
		pos, changed = m[1], true
	}
	if !changed {
		return seg
	}
	keep(pos, len(text))

	var b bytes.Buffer
	last := 0
	for i, r := range runs {
		b.Write(seg[last:r.start])
		b.Write(out[i])
		last = r.end
	}
	b.Write(seg[last:])
	return b.Bytes()
}
