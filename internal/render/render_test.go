package render_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

var fixedTime = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

func buildDocx(t *testing.T, parts map[string]string, order []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: fixedTime})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := io.WriteString(w, parts[name]); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return buf.Bytes()
}

func readDocx(t *testing.T, data []byte) ([]string, map[string]string) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}

	var order []string
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		order = append(order, f.Name)
		parts[f.Name] = string(b)
	}
	return order, parts
}

func payslipTemplate(t *testing.T) ([]byte, []string) {
	order := []string{
		"[Content_Types].xml",
		"word/document.xml",
		"word/header1.xml",
		"word/_rels/document.xml.rels",
		"docProps/core.xml",
	}
	parts := map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml": `<w:document><w:body>` +
			`<w:p><w:r><w:t>Name: {{FullName}}</w:t></w:r></w:p>` +
			`<w:p><w:pPr><w:jc w:val="right"/></w:pPr><w:r><w:t>Gross {{ GrossAmount }} Bonus {{Bonus}} {{Bonus}}</w:t></w:r></w:p>` +
			`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Net: {{Net</w:t></w:r><w:r><w:t>Amo</w:t></w:r><w:r><w:t>unt}} CAD</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>{{Over</w:t></w:r><w:r><w:t>time}}</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
		"word/header1.xml":             `<w:hdr><w:t>{{EmployeeNumber}} {{Allowance}}</w:t></w:hdr>`,
		"word/_rels/document.xml.rels": `<Relationships>{{FullName}}</Relationships>`,
		"docProps/core.xml":            `<cp:title>{{FullName}}</cp:title>`,
	}
	return buildDocx(t, parts, order), order
}

func newRenderer(engine render.FormEngine) *render.Renderer {
	return render.New(engine, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRenderDocx(t *testing.T) {
	template, order := payslipTemplate(t)
	fields := render.Fields{
		"FullName":       render.Text("Alex <Martin> & Co"),
		"GrossAmount":    render.Text("4200.00"),
		"EmployeeNumber": render.Text("102938"),
		"NetAmount":      render.Text("3200.00"),
		"Unused":         render.Text("ignored"),
	}

	doc, err := newRenderer(nil).Render(requests.KindPayslip, template, fields)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if doc.ContentType != requests.KindPayslip.ContentType() {
		t.Errorf("content type = %q", doc.ContentType)
	}
	if doc.Size != len(doc.Data) {
		t.Errorf("size = %d, data = %d", doc.Size, len(doc.Data))
	}

	gotOrder, parts := readDocx(t, doc.Data)
	if strings.Join(gotOrder, ",") != strings.Join(order, ",") {
		t.Errorf("entry order = %v, want %v", gotOrder, order)
	}

	body := parts["word/document.xml"]
	if !strings.Contains(body, "Name: Alex &lt;Martin&gt; &amp; Co") {
		t.Errorf("FullName not substituted and escaped: %s", body)
	}
	if !strings.Contains(body, "Gross 4200.00") {
		t.Errorf("spaced placeholder not substituted: %s", body)
	}
	if !strings.Contains(body, "Bonus {{Bonus}} {{Bonus}}") {
		t.Errorf("missing placeholder must be left untouched: %s", body)
	}
	splitRuns := `<w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">Net: 3200.00</w:t></w:r><w:r><w:t></w:t></w:r><w:r><w:t> CAD</w:t></w:r>`
	if !strings.Contains(body, splitRuns) {
		t.Errorf("placeholder split across runs not substituted: %s", body)
	}
	if !strings.Contains(body, "<w:t>{{Over</w:t></w:r><w:r><w:t>time}}</w:t>") {
		t.Errorf("split missing placeholder must be left untouched: %s", body)
	}
	if !strings.Contains(parts["word/header1.xml"], "102938") {
		t.Errorf("header not substituted: %s", parts["word/header1.xml"])
	}
	if parts["docProps/core.xml"] != `<cp:title>{{FullName}}</cp:title>` {
		t.Errorf("non-word part modified: %s", parts["docProps/core.xml"])
	}
	if parts["word/_rels/document.xml.rels"] != `<Relationships>{{FullName}}</Relationships>` {
		t.Errorf("relationship part modified: %s", parts["word/_rels/document.xml.rels"])
	}

	wantMissing := []string{"Allowance", "Bonus", "Overtime"}
	if strings.Join(doc.Missing, ",") != strings.Join(wantMissing, ",") {
		t.Errorf("Missing = %v, want %v", doc.Missing, wantMissing)
	}
}

func TestRenderDocxDeterministic(t *testing.T) {
	template, _ := payslipTemplate(t)
	fields := render.Fields{"FullName": render.Text("Alex Martin")}
	r := newRenderer(nil)

	first, err := r.Render(requests.KindPayslip, template, fields)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	second, err := r.Render(requests.KindPayslip, template, fields)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Error("identical input produced different output")
	}
}

func TestPlaceholders(t *testing.T) {
	template, _ := payslipTemplate(t)
	got, err := render.DocxRenderer{}.Placeholders(template)
	if err != nil {
		t.Fatalf("Placeholders() error = %v", err)
	}
	want := "Allowance,Bonus,EmployeeNumber,FullName,GrossAmount,NetAmount,Overtime"
	if strings.Join(got, ",") != want {
		t.Errorf("Placeholders() = %v, want %s", got, want)
	}
}

func TestRenderCorruptTemplate(t *testing.T) {
	tests := []struct {
		name     string
		kind     requests.Kind
		template []byte
	}{
		{"docx not a zip", requests.KindPayslip, []byte("not a zip archive")},
		{"empty docx", requests.KindPayslip, nil},
		{"form export fails", requests.KindT4, []byte("%PDF-garbage")},
	}

	engine := &fakeEngine{exportErr: errors.New("malformed pdf")}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRenderer(engine).Render(tt.kind, tt.template, render.Fields{})
			var re *requests.RenderError
			if !errors.As(err, &re) {
				t.Fatalf("expected RenderError, got %v", err)
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := newRenderer(&fakeEngine{}).Render(requests.Kind("W2"), []byte("x"), nil)
	var re *requests.RenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected RenderError, got %v", err)
	}
}

func TestOutputName(t *testing.T) {
	subject := requests.Subject{ID: "102938", DisplayName: "Alex Martin"}
	period := requests.PeriodScope{
		Start: requests.NewDate(2022, time.March, 1),
		End:   requests.NewDate(2022, time.March, 31),
	}

	tests := []struct {
		kind  requests.Kind
		scope requests.Scope
		want  string
	}{
		{requests.KindPayslip, period, "payslip_102938_20220301_to_20220331.docx"},
		{requests.KindT4, requests.YearScope{Year: 2023}, "t4_102938_2023.pdf"},
		{requests.KindT4A, requests.YearScope{Year: 2021}, "t4a_102938_2021.pdf"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := render.OutputName(tt.kind, subject, tt.scope); got != tt.want {
				t.Errorf("OutputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

type fakeEngine struct {
	form      string
	exportErr error
	filled    []byte
	fills     int
}

func (f *fakeEngine) Export(template []byte) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte(f.form), nil
}

func (f *fakeEngine) Fill(template, formJSON []byte) ([]byte, error) {
	f.fills++
	f.filled = formJSON
	return append([]byte("filled:"), template...), nil
}

const t4Form = `{
  "header": {"source": "t4.pdf", "version": "pdfcpu"},
  "forms": [
    {
      "textfield": [
        {"pages": [1], "id": "10", "name": "form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]", "value": ""},
        {"pages": [1], "id": "11", "name": "form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]", "value": "0.00"},
        {"pages": [1], "id": "12", "name": "Notes", "value": "keep"}
      ],
      "checkbox": [
        {"pages": [1], "id": "20", "name": "Exempt", "value": false}
      ]
    }
  ]
}`

func TestRenderFormFillsMatchingFields(t *testing.T) {
	engine := &fakeEngine{form: t4Form}
	fields := render.Fields{
		"form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]": render.Text("46800.00"),
		"form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]": render.Text("7600.00"),
		"box14": render.Text("case differs"),
	}

	doc, err := newRenderer(engine).Render(requests.KindT4, []byte("%PDF"), fields)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(doc.Data) != "filled:%PDF" {
		t.Errorf("Data = %q", doc.Data)
	}
	if doc.ContentType != "application/pdf" {
		t.Errorf("content type = %q", doc.ContentType)
	}
	if strings.Join(doc.Unmatched, ",") != "box14" {
		t.Errorf("Unmatched = %v", doc.Unmatched)
	}

	var sent struct {
		Header map[string]any `json:"header"`
		Forms  []struct {
			TextField []map[string]any `json:"textfield"`
			CheckBox  []map[string]any `json:"checkbox"`
		} `json:"forms"`
	}
	if err := json.Unmarshal(engine.filled, &sent); err != nil {
		t.Fatalf("decode fill JSON: %v", err)
	}
	if sent.Header["source"] != "t4.pdf" {
		t.Errorf("header not preserved: %v", sent.Header)
	}

	values := map[string]any{}
	for _, tf := range sent.Forms[0].TextField {
		values[tf["name"].(string)] = tf["value"]
	}
	if values["form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]"] != "46800.00" {
		t.Errorf("box 14 = %v", values["form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]"])
	}
	if values["form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]"] != "7600.00" {
		t.Errorf("box 22 = %v", values["form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]"])
	}
	if values["Notes"] != "keep" {
		t.Errorf("unrelated field changed: %v", values["Notes"])
	}
	if sent.Forms[0].CheckBox[0]["value"] != false {
		t.Errorf("checkbox changed: %v", sent.Forms[0].CheckBox[0])
	}
}

func TestRenderFormNoMatches(t *testing.T) {
	engine := &fakeEngine{form: t4Form}
	template := []byte("%PDF-original")
	fields := render.Fields{"Box14": render.Text("1"), "Box22": render.Text("2")}

	doc, err := newRenderer(engine).Render(requests.KindT4A, template, fields)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !bytes.Equal(doc.Data, template) {
		t.Errorf("template must be returned unmodified, got %q", doc.Data)
	}
	if engine.fills != 0 {
		t.Errorf("Fill called %d times", engine.fills)
	}
	if strings.Join(doc.Unmatched, ",") != "Box14,Box22" {
		t.Errorf("Unmatched = %v", doc.Unmatched)
	}
}

func TestInspect(t *testing.T) {
	fields, err := newRenderer(&fakeEngine{form: t4Form}).Inspect([]byte("%PDF"))
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(fields) != 4 {
		t.Fatalf("got %d fields, want 4", len(fields))
	}

	tests := []struct {
		index int
		typ   string
		name  string
		value string
	}{
		{0, "textfield", "form1[0].Page1[0].Slip1[0].Box14[0].Slip1Box14[0]", ""},
		{1, "textfield", "form1[0].Page1[0].Slip1[0].Box22[0].Slip1Box22[0]", "0.00"},
		{3, "checkbox", "Exempt", "false"},
	}
	for _, tt := range tests {
		got := fields[tt.index]
		if got.Type != tt.typ || got.Name != tt.name || got.Value != tt.value {
			t.Errorf("field %d = %+v", tt.index, got)
		}
	}
	if fields[0].ID != "10" || len(fields[0].Pages) != 1 {
		t.Errorf("id/pages not decoded: %+v", fields[0])
	}
}

func TestInspectExportError(t *testing.T) {
	_, err := newRenderer(&fakeEngine{exportErr: errors.New("boom")}).Inspect([]byte("x"))
	var re *requests.RenderError
	if !errors.As(err, &re) {
		t.Fatalf("expected RenderError, got %v", err)
	}
}
