package docgen

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitales-2024/perucontrol-sub003/pkg/money"
)

func buildTemplate(t *testing.T, content string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	mt, err := w.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	require.NoError(t, err)
	_, err = mt.Write([]byte("application/vnd.oasis.opendocument.spreadsheet"))
	require.NoError(t, err)

	cf, err := w.Create("content.xml")
	require.NoError(t, err)
	_, err = cf.Write([]byte(content))
	require.NoError(t, err)

	meta, err := w.Create("meta.xml")
	require.NoError(t, err)
	_, err = meta.Write([]byte("<office:document-meta/>"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readPart(t *testing.T, archive []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestRewriteReplacesMappedTokens(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>Estimado {nombre_cliente}, RUC {ruc_cliente}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{nombre_cliente}", "ACME SAC")
	m.Set("{ruc_cliente}", "20123456789")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, "Estimado ACME SAC, RUC 20123456789")
	assert.Empty(t, result.Unmatched)
}

func TestRewriteLeavesMarkupAlone(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p text:style-name="{nombre_cliente}">{nombre_cliente}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{nombre_cliente}", "ACME")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, `text:style-name="{nombre_cliente}"`)
	assert.Contains(t, content, ">ACME<")
}

func TestRewriteEscapesReplacementText(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>Estimado {nombre_cliente}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{nombre_cliente}", "Ramirez & Hijos <SAC>")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, "Estimado Ramirez &amp; Hijos &lt;SAC&gt;")

	// The rewritten part must still parse as XML.
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
}

func TestRewriteUnmatchedTokensPassThrough(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>{nombre_cliente} y {token_desconocido}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{nombre_cliente}", "ACME")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, "{token_desconocido}")
	assert.Equal(t, []string{"{token_desconocido}"}, result.Unmatched)
}

func TestRewriteReplacementNotRescanned(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>{a} {b}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{a}", "{b}")
	m.Set("{b}", "X")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, "{b} X")
}

func TestRewriteCopiesOtherEntriesVerbatim(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>{nombre_cliente}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{nombre_cliente}", "ACME")

	result, err := Rewrite(tmpl, FormatODS, m, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.oasis.opendocument.spreadsheet",
		readPart(t, result.Bytes, "mimetype"))
	assert.Equal(t, "<office:document-meta/>", readPart(t, result.Bytes, "meta.xml"))

	r, err := zip.NewReader(bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	require.NoError(t, err)
	assert.Equal(t, "mimetype", r.File[0].Name)
	assert.Equal(t, zip.Store, r.File[0].Method)
}

const orderTableXML = `<table:table>` +
	`<table:table-row><table:table-cell><text:p>Item</text:p></table:table-cell></table:table-row>` +
	`<table:table-row><table:table-cell><text:p>{nro_item_producto}</text:p></table:table-cell>` +
	`<table:table-cell><text:p>{descripcion_producto}</text:p></table:table-cell>` +
	`<table:table-cell><text:p>{total_producto}</text:p></table:table-cell></table:table-row>` +
	`<table:table-row><table:table-cell><text:p>Total {total}</text:p></table:table-cell></table:table-row>` +
	`</table:table>`

func orderRows(values [][3]string) []*PlaceholderMap {
	rows := make([]*PlaceholderMap, 0, len(values))
	for _, v := range values {
		r := NewPlaceholderMap()
		r.Set("{nro_item_producto}", v[0])
		r.Set("{descripcion_producto}", v[1])
		r.Set("{total_producto}", v[2])
		rows = append(rows, r)
	}
	return rows
}

func TestRewriteClonesLineItemRows(t *testing.T) {
	tmpl := buildTemplate(t, orderTableXML)
	m := NewPlaceholderMap()
	m.Set("{total}", "47.20")
	items := &LineItems{
		Anchor: "{descripcion_producto}",
		Rows: orderRows([][3]string{
			{"1", "Raticida", "20.00"},
			{"2", "Insecticida", "20.00"},
		}),
	}

	result, err := Rewrite(tmpl, FormatODS, m, items)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.NotContains(t, content, "{descripcion_producto}")
	assert.NotContains(t, content, "{nro_item_producto}")
	first := strings.Index(content, "Raticida")
	second := strings.Index(content, "Insecticida")
	assert.Greater(t, first, 0)
	assert.Greater(t, second, first)
	assert.Equal(t, 2, strings.Count(content, "<table:table-row><table:table-cell><text:p>1</text:p>")+
		strings.Count(content, "<table:table-row><table:table-cell><text:p>2</text:p>"))
	assert.Contains(t, content, "Total 47.20")
}

func TestRewriteNoAnchorSkipsExpansion(t *testing.T) {
	tmpl := buildTemplate(t, `<text:p>{total}</text:p>`)
	m := NewPlaceholderMap()
	m.Set("{total}", "10.00")
	items := &LineItems{
		Anchor: "{descripcion_producto}",
		Rows:   orderRows([][3]string{{"1", "Raticida", "10.00"}}),
	}

	result, err := Rewrite(tmpl, FormatODS, m, items)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.NotContains(t, content, "Raticida")
	assert.Contains(t, content, "10.00")
}

func TestRewriteIdempotent(t *testing.T) {
	tmpl := buildTemplate(t, orderTableXML)
	m := NewPlaceholderMap()
	m.Set("{total}", "47.20")
	items := &LineItems{
		Anchor: "{descripcion_producto}",
		Rows:   orderRows([][3]string{{"1", "Raticida", "47.20"}}),
	}

	first, err := Rewrite(tmpl, FormatODS, m, items)
	require.NoError(t, err)
	second, err := Rewrite(tmpl, FormatODS, m, items)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Bytes, second.Bytes))
}

func TestRewriteTotalsScenario(t *testing.T) {
	subtotal, tax, total := money.Totals([]money.Line{
		{Quantity: 2, UnitPrice: 10.00},
		{Quantity: 1, UnitPrice: 20.00},
	})
	assert.Equal(t, 40.00, subtotal)
	assert.Equal(t, 7.20, tax)
	assert.Equal(t, 47.20, total)

	tmpl := buildTemplate(t, orderTableXML)
	m := NewPlaceholderMap()
	m.Set("{total}", money.Format(total))
	items := &LineItems{
		Anchor: "{descripcion_producto}",
		Rows: orderRows([][3]string{
			{"1", "Servicio A", "20.00"},
			{"2", "Servicio B", "20.00"},
		}),
	}

	result, err := Rewrite(tmpl, FormatODS, m, items)
	require.NoError(t, err)

	content := readPart(t, result.Bytes, "content.xml")
	assert.Contains(t, content, "47.20")
	assert.Equal(t, 2, strings.Count(content, "Servicio "))
}

func TestRewriteCorruptArchive(t *testing.T) {
	m := NewPlaceholderMap()
	_, err := Rewrite([]byte("not a zip archive"), FormatODS, m, nil)
	assert.Error(t, err)
}

func TestRewriteMissingContentPart(t *testing.T) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, err := w.Create("meta.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<meta/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = Rewrite(buf.Bytes(), FormatODS, NewPlaceholderMap(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "content.xml")
}
