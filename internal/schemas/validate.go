// Package schemas provides JSON Schema validation for data files loaded at
// runtime, currently the sample-hit fixtures that back unconfigured search
// providers.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed sample_hits.schema.json
var sampleHitsSchemaJSON string

var (
	sampleHitsOnce   sync.Once
	sampleHitsSchema *gojsonschema.Schema
	sampleHitsErr    error
)

// ValidateSampleHits checks a sample-hit fixture against the embedded
// sample-hits schema. The schema compiles on first use and is shared by
// every call after that.
func ValidateSampleHits(raw []byte) error {
	sampleHitsOnce.Do(func() {
		loader := gojsonschema.NewStringLoader(sampleHitsSchemaJSON)
		sampleHitsSchema, sampleHitsErr = gojsonschema.NewSchema(loader)
	})
	if sampleHitsErr != nil {
		return &SchemaLoadError{Schema: "sample_hits", Message: "embedded schema does not compile", Cause: sampleHitsErr}
	}

	result, err := sampleHitsSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &SchemaLoadError{Schema: "sample_hits", Message: "document could not be checked", Cause: err}
	}
	return resultError(result)
}

// ValidateJSONString checks a JSON document against a schema, both given as
// strings.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Schema: "(string schema)", Message: "schema does not compile", Cause: err}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{Schema: "(string schema)", Message: "document could not be checked", Cause: err}
	}
	return resultError(result)
}

// resultError flattens an invalid result into a ValidationError, one entry
// per offending field.
func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

// ValidationError reports every field a document failed on.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is one violation at one field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// SchemaLoadError means the schema itself, or the raw document, could not be
// processed; it says nothing about whether the document conforms.
type SchemaLoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	msg := fmt.Sprintf("schema %s: %s", e.Schema, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}
