package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todo-go/internal/utils"
)

// SchemaVersion is the export format version written by this package.
const SchemaVersion = 1

// bundledSchemaURL is the $id of the embedded schema.
const bundledSchemaURL = "https://github.com/nibzard/todo-go/todos.schema.json"

//go:embed todos.schema.json
var bundledSchema []byte

// BundledSchema returns the embedded JSON Schema for export files.
func BundledSchema() []byte {
	out := make([]byte, len(bundledSchema))
	copy(out, bundledSchema)
	return out
}

// File is the JSON export of a todo database.
type File struct {
	SchemaVersion int       `json:"schema_version"`
	ExportedAt    time.Time `json:"exported_at"`
	Todos         []Todo    `json:"todos"`
}

// NewFile wraps todos in an export file stamped with exportedAt.
func NewFile(todos []Todo, exportedAt time.Time) *File {
	if todos == nil {
		todos = []Todo{}
	}
	return &File{
		SchemaVersion: SchemaVersion,
		ExportedAt:    exportedAt,
		Todos:         todos,
	}
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file.
	// If empty, the bundled schema is used.
	SchemaPath string
	// SkipSchema disables JSON Schema validation entirely.
	SkipSchema bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Err joins the validation errors into one, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Errorf("invalid export file: %s", strings.Join(msgs, "; "))
}

// Load reads and parses an export file from path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse export file: %w", err)
	}

	return &f, nil
}

// Encode writes the file as JSON with 2-space indentation.
func (f *File) Encode(w io.Writer) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export file: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	_, err = w.Write(data)
	return err
}

// Save writes the file to path.
func (f *File) Save(path string) error {
	var buf bytes.Buffer
	if err := f.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// Validate validates the export file.
func (f *File) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if !opts.SkipSchema {
		schemaResult := validateWithSchema(f, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			return result
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	f.validateMinimal(result)

	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func (f *File) validateMinimal(result *ValidationResult) {
	if f.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, f.SchemaVersion),
		})
	}

	if f.Todos == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "todos",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i := range f.Todos {
		path := fmt.Sprintf("todos[%d]", i)
		if err := validateTodoMinimal(&f.Todos[i], path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
}

func validateTodoMinimal(t *Todo, path string) *ValidationError {
	if t.ID < 0 {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("must not be negative, got %d", t.ID),
		}
	}

	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{
			Path: path + ".title",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	if t.CreatedAt.IsZero() {
		return &ValidationError{
			Path: path + ".created_at",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	return nil
}

// compileSchema compiles the schema at schemaPath, or the bundled schema when
// schemaPath is empty.
func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(bundledSchemaURL, bytes.NewReader(bundledSchema)); err != nil {
			return nil, fmt.Errorf("load bundled schema: %w", err)
		}
		return compiler.Compile(bundledSchemaURL)
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return compiler.Compile(absPath)
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(f *File, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}

	result.UsedSchema = true

	// Marshal the file back to JSON for validation
	fileData, err := json.Marshal(f)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal file for validation: %w", err),
		})
		return result
	}

	var fileObj interface{}
	if err := json.Unmarshal(fileData, &fileObj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal file for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(fileObj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
