package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DocFormat tells the rewriter which archive entry carries body text and
// how table rows are delimited in that dialect.
type DocFormat struct {
	ContentPart string
	RowOpen     string
	RowClose    string
}

var (
	FormatODT = DocFormat{
		ContentPart: "content.xml",
		RowOpen:     "<table:table-row",
		RowClose:    "</table:table-row>",
	}
	FormatODS = DocFormat{
		ContentPart: "content.xml",
		RowOpen:     "<table:table-row",
		RowClose:    "</table:table-row>",
	}
	FormatDOCX = DocFormat{
		ContentPart: "word/document.xml",
		RowOpen:     "<w:tr",
		RowClose:    "</w:tr>",
	}
)

// LineItems describes optional table-row expansion. Anchor is the token
// that identifies the template row; Rows holds one placeholder map per
// data row, in output order.
type LineItems struct {
	Anchor string
	Rows   []*PlaceholderMap
}

// RewriteResult is the rewritten archive plus the tokens found in the
// template that had no mapping. Unmatched tokens stay verbatim in the
// output.
type RewriteResult struct {
	Bytes     []byte
	Unmatched []string
}

// Rewrite substitutes placeholders into the text-bearing XML part of a
// zip-based document. Every other archive entry is copied unchanged.
// Substitution only touches XML character data, never tags or
// attributes; a token's replacement text is never re-scanned.
func Rewrite(template []byte, format DocFormat, placeholders *PlaceholderMap, items *LineItems) (*RewriteResult, error) {
	reader, err := zip.NewReader(bytes.NewReader(template), int64(len(template)))
	if err != nil {
		return nil, fmt.Errorf("failed to open template archive: %w", err)
	}

	var content string
	found := false
	for _, f := range reader.File {
		if f.Name == format.ContentPart {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
			}
			data, err := io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
			}
			content = string(data)
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("template has no %s part", format.ContentPart)
	}

	if items != nil {
		content = expandRows(content, format, items)
	}

	unmatched := make(map[string]struct{})
	content = substitute(content, placeholders, unmatched)

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for _, f := range reader.File {
		header := f.FileHeader
		writer, err := w.CreateHeader(&header)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", f.Name, err)
		}
		if f.Name == format.ContentPart {
			if _, err := writer.Write([]byte(content)); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", f.Name, err)
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
		}
		_, err = io.Copy(writer, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to copy archive entry %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish archive: %w", err)
	}

	tokens := make([]string, 0, len(unmatched))
	for tok := range unmatched {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return &RewriteResult{Bytes: buf.Bytes(), Unmatched: tokens}, nil
}

// expandRows locates the table row containing the anchor token, clones
// it once per data row with that row's values substituted, splices the
// clones where the template row stood and drops the original. A missing
// anchor means the document renders with zero item rows.
func expandRows(content string, format DocFormat, items *LineItems) string {
	anchorAt := strings.Index(content, items.Anchor)
	if anchorAt < 0 {
		return content
	}
	rowStart := strings.LastIndex(content[:anchorAt], format.RowOpen)
	if rowStart < 0 {
		return content
	}
	rowEndRel := strings.Index(content[anchorAt:], format.RowClose)
	if rowEndRel < 0 {
		return content
	}
	rowEnd := anchorAt + rowEndRel + len(format.RowClose)
	templateRow := content[rowStart:rowEnd]

	var clones strings.Builder
	for _, row := range items.Rows {
		clones.WriteString(substitute(templateRow, row, nil))
	}
	return content[:rowStart] + clones.String() + content[rowEnd:]
}

// substitute applies the placeholder map to all character data in the
// XML string. When unmatched is non-nil, unknown tokens encountered in
// the text are recorded there.
func substitute(xml string, m *PlaceholderMap, unmatched map[string]struct{}) string {
	var b strings.Builder
	b.Grow(len(xml))
	for i := 0; i < len(xml); {
		if xml[i] == '<' {
			end := strings.IndexByte(xml[i:], '>')
			if end < 0 {
				b.WriteString(xml[i:])
				break
			}
			b.WriteString(xml[i : i+end+1])
			i += end + 1
			continue
		}
		next := strings.IndexByte(xml[i:], '<')
		var segment string
		if next < 0 {
			segment = xml[i:]
			i = len(xml)
		} else {
			segment = xml[i : i+next]
			i += next
		}
		b.WriteString(replaceSegment(segment, m, unmatched))
	}
	return b.String()
}

// xmlEscaper protects character data from replacement values that
// carry XML metacharacters, e.g. an "&" in a client's legal name.
var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// replaceSegment rewrites one run of character data. A single
// left-to-right pass: at each position the tokens are tried in map
// order and the first match wins; the written replacement is escaped
// and skipped over, so replacements are never re-scanned.
func replaceSegment(segment string, m *PlaceholderMap, unmatched map[string]struct{}) string {
	if !strings.Contains(segment, "{") {
		return segment
	}
	var b strings.Builder
	b.Grow(len(segment))
	for i := 0; i < len(segment); {
		if segment[i] != '{' {
			next := strings.IndexByte(segment[i:], '{')
			if next < 0 {
				b.WriteString(segment[i:])
				break
			}
			b.WriteString(segment[i : i+next])
			i += next
		}
		matched := false
		for _, tok := range m.Tokens() {
			if strings.HasPrefix(segment[i:], tok) {
				value, _ := m.Get(tok)
				b.WriteString(xmlEscaper.Replace(value))
				i += len(tok)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if unmatched != nil {
			if end := strings.IndexByte(segment[i:], '}'); end > 0 {
				if tok := segment[i : i+end+1]; isToken(tok) {
					unmatched[tok] = struct{}{}
				}
			}
		}
		b.WriteByte(segment[i])
		i++
	}
	return b.String()
}

// isToken reports whether s looks like a placeholder: braces around a
// non-empty identifier.
func isToken(s string) bool {
	if len(s) < 3 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}
	for _, c := range s[1 : len(s)-1] {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
