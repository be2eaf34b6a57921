package digest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed digest.schema.json
var schemaSource []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidationIssue captures a single schema validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// SchemaError surfaces schema validation issues with location context. It
// unwraps to ErrSchemaViolation so callers can branch with errors.Is.
type SchemaError struct {
	Issues []ValidationIssue
}

func (e *SchemaError) Error() string {
	if len(e.Issues) == 0 {
		return ErrSchemaViolation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaViolation
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("digest.schema.json", bytes.NewReader(schemaSource)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile("digest.schema.json")
	})
	return compiledSchema, schemaErr
}

// ValidatePayload checks a decoded digest payload against the digest schema.
func ValidatePayload(payload any) error {
	s, err := schema()
	if err != nil {
		return err
	}

	if err := s.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &SchemaError{Issues: collectIssues(validationErr)}
		}
		return &SchemaError{Issues: []ValidationIssue{{Message: err.Error()}}}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
