package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// FormEngine exports and fills PDF AcroForm data as pdfcpu form JSON.
type FormEngine interface {
	Export(template []byte) ([]byte, error)
	Fill(template, formJSON []byte) ([]byte, error)
}

// PDFCPU is the FormEngine backed by pdfcpu.
type PDFCPU struct{}

func (PDFCPU) Export(template []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := api.ExportForm(bytes.NewReader(template), "template.pdf", &out, nil); err != nil {
		return nil, fmt.Errorf("export form: %w", err)
	}
	return out.Bytes(), nil
}

func (PDFCPU) Fill(template, formJSON []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(template), bytes.NewReader(formJSON), &out, nil); err != nil {
		return nil, fmt.Errorf("fill form: %w", err)
	}
	return out.Bytes(), nil
}

// FormField describes one field of a fillable PDF.
type FormField struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Pages []int  `json:"pages,omitempty"`
}

var fieldGroups = []string{"textfield", "datefield", "checkbox", "radiobuttongroup", "combobox", "listbox"}

// FormRenderer fills the text fields of a PDF form.
type FormRenderer struct {
	engine FormEngine
}

// NewFormRenderer creates a FormRenderer. A nil engine selects pdfcpu.
func NewFormRenderer(engine FormEngine) *FormRenderer {
	if engine == nil {
		engine = PDFCPU{}
	}
	return &FormRenderer{engine: engine}
}

// Render sets every text field whose name equals a key of fields and returns
// the keys that matched no text field. When nothing matches the template is
// returned unchanged.
func (r *FormRenderer) Render(template []byte, fields Fields) ([]byte, []string, error) {
	doc, err := r.export(template)
	if err != nil {
		return nil, nil, err
	}

	matched := map[string]bool{}
	forms, _ := doc["forms"].([]any)
	for _, f := range forms {
		form, ok := f.(map[string]any)
		if !ok {
			continue
		}
		texts, _ := form["textfield"].([]any)
		for _, t := range texts {
			tf, ok := t.(map[string]any)
			if !ok {
				continue
			}
			name, _ := tf["name"].(string)
			if v, ok := fields[name]; ok {
				tf["value"] = v.Format()
				matched[name] = true
			}
		}
	}

	var unmatched []string
	for _, key := range fields.Keys() {
		if !matched[key] {
			unmatched = append(unmatched, key)
		}
	}

	if len(matched) == 0 {
		return slices.Clone(template), unmatched, nil
	}

	filled, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encode form: %w", err)
	}

	out, err := r.engine.Fill(template, filled)
	if err != nil {
		return nil, nil, err
	}
	return out, unmatched, nil
}

// Inspect lists every form field of a PDF template in export order.
func (r *FormRenderer) Inspect(template []byte) ([]FormField, error) {
	doc, err := r.export(template)
	if err != nil {
		return nil, err
	}

	var fields []FormField
	forms, _ := doc["forms"].([]any)
	for _, f := range forms {
		form, ok := f.(map[string]any)
		if !ok {
			continue
		}
		for _, group := range fieldGroups {
			entries, _ := form[group].([]any)
			for _, e := range entries {
				data, err := json.Marshal(e)
				if err != nil {
					return nil, fmt.Errorf("decode %s: %w", group, err)
				}
				var ff FormField
				if err := json.Unmarshal(data, &ff); err != nil {
					ff = fieldFromMap(e)
				}
				ff.Type = group
				fields = append(fields, ff)
			}
		}
	}
	return fields, nil
}

func (r *FormRenderer) export(template []byte) (map[string]any, error) {
	data, err := r.engine.Export(template)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	return doc, nil
}

// fieldFromMap recovers name and id when value is not a string, as with
// checkboxes and list boxes.
func fieldFromMap(e any) FormField {
	m, _ := e.(map[string]any)
	ff := FormField{}
	ff.ID, _ = m["id"].(string)
	ff.Name, _ = m["name"].(string)
	if v, ok := m["value"]; ok && v != nil {
		ff.Value = fmt.Sprint(v)
	}
	return ff
}
