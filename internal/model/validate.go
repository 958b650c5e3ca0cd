// Package model validates AppState documents imported from outside the
// process before they reach the store.
package model

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cv-builder/internal/domain"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/appstate.schema.json
var appStateSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(appStateSchema)

// FieldError is one schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "schema validation failed: " + strings.Join(msgs, "; ")
}

// ValidateState checks raw JSON against the AppState schema.
func ValidateState(b []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(b))
	if err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range res.Errors() {
		verr.Fields = append(verr.Fields, FieldError{Field: e.Field(), Message: e.Description()})
	}
	return verr
}

// DecodeState validates b and decodes it. Missing lists and settings are
// filled with the defaults of an empty state.
func DecodeState(b []byte) (domain.AppState, error) {
	if err := ValidateState(b); err != nil {
		return domain.AppState{}, err
	}
	st := domain.EmptyState()
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.AppState{}, fmt.Errorf("decode state: %w", err)
	}
	return st.WithDefaults(), nil
}
