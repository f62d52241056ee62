// Package template validates Liquid-templated JSON configurations.
//
// An agent proposes a configuration as a Liquid template string. The
// validator answers two independent questions about it: does the
// template parse, and does it render to valid JSON once the workflow
// variables are substituted. A parse or render failure is data, not an
// error: it is captured in the result and never panics or propagates.
package template

import (
	"encoding/json"
	"fmt"

	"github.com/osteele/liquid"
)

// Validation is the outcome of checking one template against one
// variable set.
type Validation struct {
	// SyntaxValid reports whether the template parsed and rendered
	// without a Liquid error. Undefined variables do not count as
	// errors; Liquid renders them as empty values.
	SyntaxValid bool

	// RendersToJSON reports whether the rendered output parsed as JSON.
	// Always false when SyntaxValid is false.
	RendersToJSON bool

	// Rendered holds the rendered output when rendering succeeded.
	Rendered string

	// Err holds the captured parse, render or JSON-decode error.
	Err error
}

// Validator renders Liquid templates against workflow variables.
// The zero value is not usable; construct with New.
type Validator struct {
	engine *liquid.Engine
}

// New constructs a template validator.
func New() *Validator {
	return &Validator{engine: liquid.NewEngine()}
}

// Validate parses the template, renders it with the given variables and
// checks that the output is valid JSON. It never returns an error:
// failures are recorded in the Validation result.
func (v *Validator) Validate(source string, variables map[string]any) Validation {
	rendered, err := v.render(source, variables)
	if err != nil {
		return Validation{Err: fmt.Errorf("template render failed: %w", err)}
	}

	if !json.Valid([]byte(rendered)) {
		return Validation{
			SyntaxValid: true,
			Rendered:    rendered,
			Err:         fmt.Errorf("rendered output is not valid JSON"),
		}
	}

	return Validation{
		SyntaxValid:   true,
		RendersToJSON: true,
		Rendered:      rendered,
	}
}

// render parses and renders, converting any Liquid panic into an error.
// The Liquid engine is pure Go but its tag parsers are third-party
// code; a malformed template must not take down a whole evaluation run.
func (v *Validator) render(source string, variables map[string]any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("template engine panic: %v", r)
		}
	}()

	tmpl, err := v.engine.ParseString(source)
	if err != nil {
		return "", err
	}

	bindings := make(liquid.Bindings, len(variables))
	for k, val := range variables {
		bindings[k] = val
	}

	return tmpl.RenderString(bindings)
}
