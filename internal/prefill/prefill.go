// Package prefill reads and writes event drafts as YAML files so an event
// can be prepared ahead of time and loaded into the wizard.
package prefill

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbcorp/gleo/internal/wizard"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// text is a scalar kept exactly as written, so prices like 5.00 and PINs
// like 0042 survive whether or not they were quoted.
type text string

func (t *text) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	if n.Tag == "!!null" {
		*t = ""
		return nil
	}
	*t = text(n.Value)
	return nil
}

// Document is the file format.
type Document struct {
	Code    string   `yaml:"code"`
	Name    string   `yaml:"name"`
	StartAt text     `yaml:"start_at,omitempty"`
	EndAt   text     `yaml:"end_at,omitempty"`
	Vendors []Vendor `yaml:"vendors"`
}

// Vendor is one vendor in a Document.
type Vendor struct {
	Name      string `yaml:"name"`
	Pin       text   `yaml:"pin,omitempty"`
	MenuItems []Item `yaml:"menu_items"`
}

// Item is one menu item in a Document.
type Item struct {
	Name        string `yaml:"name"`
	Price       text   `yaml:"price"`
	MaxPerOrder *int   `yaml:"max_per_order,omitempty"`
}

// Load reads a prefill file.
func Load(path string) (wizard.EventPrefill, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wizard.EventPrefill{}, fmt.Errorf("read prefill: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return wizard.EventPrefill{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a prefill document. Unknown keys are errors.
func Parse(data []byte) (wizard.EventPrefill, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return wizard.EventPrefill{}, errors.New("prefill is empty")
		}
		return wizard.EventPrefill{}, fmt.Errorf("parse prefill: %w", err)
	}
	return doc.Prefill(), nil
}

// Prefill converts the document into wizard seed values.
func (d Document) Prefill() wizard.EventPrefill {
	p := wizard.EventPrefill{
		Code:    d.Code,
		Name:    d.Name,
		StartAt: string(d.StartAt),
		EndAt:   string(d.EndAt),
	}
	for _, v := range d.Vendors {
		vp := wizard.VendorPrefill{Name: v.Name, Pin: string(v.Pin)}
		for _, item := range v.MenuItems {
			vp.MenuItems = append(vp.MenuItems, wizard.ItemPrefill{
				Name:        item.Name,
				Price:       string(item.Price),
				MaxPerOrder: item.MaxPerOrder,
			})
		}
		p.Vendors = append(p.Vendors, vp)
	}
	return p
}

// FromPayload converts a payload back into the file format.
func FromPayload(p wizard.Payload) Document {
	doc := Document{Code: p.Code, Name: p.Name}
	if p.StartAt != nil {
		doc.StartAt = text(*p.StartAt)
	}
	if p.EndAt != nil {
		doc.EndAt = text(*p.EndAt)
	}
	for _, v := range p.Vendors {
		vendor := Vendor{Name: v.Name, Pin: text(v.Pin)}
		for _, item := range v.MenuItems {
			vendor.MenuItems = append(vendor.MenuItems, Item{
				Name:        item.Name,
				Price:       text(item.Price),
				MaxPerOrder: item.MaxPerOrder,
			})
		}
		doc.Vendors = append(doc.Vendors, vendor)
	}
	return doc
}

// Marshal encodes a payload in the file format.
func Marshal(p wizard.Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromPayload(p)); err != nil {
		return nil, fmt.Errorf("encode prefill: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileName returns the export name for a payload, e.g. spring-fest-a1234.yml.
func FileName(p wizard.Payload) string {
	parts := []string{}
	if s := slug.Make(p.Name); s != "" {
		parts = append(parts, s)
	}
	if s := slug.Make(p.Code); s != "" {
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		parts = append(parts, "event")
	}
	return strings.Join(parts, "-") + ".yml"
}

// Write exports a payload into dir and returns the file path.
func Write(dir string, p wizard.Payload) (string, error) {
	data, err := Marshal(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(p))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write prefill: %w", err)
	}
	return path, nil
}
