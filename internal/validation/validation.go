// Package validation provides schema-based checking of directive
// parameters.
//
// KEY RESPONSIBILITIES:
// - Define one parameter schema per directive kind (layout, style,
//   transition, card, media, code, math, step)
// - Check parsed parameter maps against the schema during compilation
// - Report anomalies as non-fatal Diagnostics, never as build failures
//
// Unknown keys and malformed values warn and are otherwise ignored; a
// directive is never rejected outright, matching the build's degrade-
// don't-fail policy.
package validation

import (
	"strconv"

	"github.com/deckfold/deckfold/internal/errors"
	"github.com/deckfold/deckfold/internal/models"
)

// FieldType constrains a parameter value.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeBool   FieldType = "bool"
	TypeEnum   FieldType = "enum"
)

// Field describes one allowed parameter key.
type Field struct {
	Type    FieldType
	Options []string // for TypeEnum
}

// Schema is the parameter contract of one directive kind. OpenKeys
// schemas accept arbitrary keys (the style directive), checking only the
// keys they declare.
type Schema struct {
	Directive string
	Fields    map[string]Field
	OpenKeys  bool
}

// schemas holds the built-in directive schemas.
var schemas = map[string]*Schema{
	"step": {
		Directive: "step",
		Fields: map[string]Field{
			"duration": {Type: TypeInt},
		},
		// The leading effect name arrives as a bare flag key.
		OpenKeys: true,
	},
	"layout": {
		Directive: "layout",
		Fields: map[string]Field{
			"cols": {Type: TypeInt},
			"rows": {Type: TypeInt},
		},
		OpenKeys: true, // layout name arrives as a bare flag key
	},
	"style": {
		Directive: "style",
		Fields:    map[string]Field{},
		OpenKeys:  true,
	},
	"transition": {
		Directive: "transition",
		Fields: map[string]Field{
			"duration": {Type: TypeInt},
		},
		OpenKeys: true, // transition name arrives as a bare flag key
	},
	"card": {
		Directive: "card",
		Fields: map[string]Field{
			"bg":      {Type: TypeString},
			"color":   {Type: TypeString},
			"padding": {Type: TypeString},
			"shadow":  {Type: TypeEnum, Options: []string{"sm", "md", "lg", "false", "true"}},
		},
	},
	"media": {
		Directive: "media",
		Fields: map[string]Field{
			"src":  {Type: TypeString},
			"type": {Type: TypeEnum, Options: []string{"image", "video", "audio"}},
		},
	},
	"code": {
		Directive: "code",
		Fields: map[string]Field{
			"lang":  {Type: TypeString},
			"lines": {Type: TypeString},
		},
	},
	"math": {
		Directive: "math",
		Fields:    map[string]Field{},
		OpenKeys:  true,
	},
}

// SchemaFor returns the schema for a directive kind.
func SchemaFor(directive string) (*Schema, bool) {
	s, ok := schemas[directive]
	return s, ok
}

// Check validates params against the schema, returning one warning
// Diagnostic per anomaly. slideIndex is -1 for the definitions region.
func (s *Schema) Check(params map[string]string, slideIndex int) []models.Diagnostic {
	var diags []models.Diagnostic
	for key, value := range params {
		field, known := s.Fields[key]
		if !known {
			if !s.OpenKeys {
				diags = append(diags, errors.Diagnostic(models.DiagWarning, slideIndex,
					"unknown parameter %q on %s directive", key, s.Directive))
			}
			continue
		}
		switch field.Type {
		case TypeInt:
			if _, err := strconv.Atoi(value); err != nil {
				diags = append(diags, errors.Diagnostic(models.DiagWarning, slideIndex,
					"parameter %q on %s directive is not an integer: %q", key, s.Directive, value))
			}
		case TypeBool:
			if value != "true" && value != "false" {
				diags = append(diags, errors.Diagnostic(models.DiagWarning, slideIndex,
					"parameter %q on %s directive is not a boolean: %q", key, s.Directive, value))
			}
		case TypeEnum:
			found := false
			for _, opt := range field.Options {
				if value == opt {
					found = true
					break
				}
			}
			if !found {
				diags = append(diags, errors.Diagnostic(models.DiagWarning, slideIndex,
					"parameter %q on %s directive has unknown value %q", key, s.Directive, value))
			}
		}
	}
	return diags
}
