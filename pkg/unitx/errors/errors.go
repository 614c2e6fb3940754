// Package errors provides structured error types for the UnitX language.
//
// UnitXError represents both parser and runtime errors. Each error carries a
// class (rendered as the familiar "NameError", "UnitError", ... kind), a
// stable catalog code, a rendered message and optional hints.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrorClass is the user-visible error kind.
type ErrorClass string

const (
	ClassSyntax     ErrorClass = "SyntaxError"
	ClassName       ErrorClass = "NameError"
	ClassType       ErrorClass = "TypeError"
	ClassUnit       ErrorClass = "UnitError"
	ClassAssertion  ErrorClass = "AssertionError"
	ClassZeroDivide ErrorClass = "ZeroDivisionError"
)

// UnitXError represents any error from parsing or evaluation.
type UnitXError struct {
	Class   ErrorClass     `json:"class"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hints   []string       `json:"hints,omitempty"`
	Line    int            `json:"line"`
	Column  int            `json:"column"`
	File    string         `json:"file,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *UnitXError) Error() string {
	return e.String()
}

// Text returns the "<Kind>: <description>" form without location or hints.
func (e *UnitXError) Text() string {
	if e.Class == "" {
		return e.Message
	}
	return string(e.Class) + ": " + e.Message
}

// String returns the message prefixed with its location and followed by hints.
func (e *UnitXError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Text())

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *UnitXError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *UnitXError) WithFile(file string) *UnitXError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *UnitXError) WithPosition(line, column int) *UnitXError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsSyntaxError returns true if this error came from the parser or a
// misplaced control statement.
func (e *UnitXError) IsSyntaxError() bool {
	return e.Class == ClassSyntax
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass
	Template string   // Message template with {{.placeholders}}
	Hints    []string // Hint templates
}

// ErrorCatalog maps error codes to their definitions. Templates are the
// English source strings; translations are registered in messages.go.
var ErrorCatalog = map[string]ErrorDef{
	// Parse errors (PARSE-0xxx)
	"PARSE-0001": {
		Class:    ClassSyntax,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassSyntax,
		Template: "unexpected token '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassSyntax,
		Template: "unterminated string",
	},
	"PARSE-0004": {
		Class:    ClassSyntax,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0005": {
		Class:    ClassSyntax,
		Template: "invalid unit annotation",
		Hints:    []string{"{m}", "{km->m}", "{m/s}", "{km->m/h->s}", "{@}"},
	},
	"PARSE-0006": {
		Class:    ClassSyntax,
		Template: "illegal character '{{.Char}}'",
	},
	"PARSE-0007": {
		Class:    ClassSyntax,
		Template: "unterminated block comment",
	},

	// Name errors (NAME-0xxx)
	"NAME-0001": {
		Class:    ClassName,
		Template: "name '{{.Name}}' is not defined",
	},

	// Type errors (TYPE-0xxx)
	"TYPE-0001": {
		Class:    ClassType,
		Template: "unsupported operand type(s) for {{.Operator}}: '{{.Left}}' and '{{.Right}}'",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "unsupported operand None for {{.Operator}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "{{.Name}}() takes exactly {{.Expected}} arguments ({{.Got}} given)",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "'{{.Type}}' object is not callable",
	},
	"TYPE-0005": {
		Class:    ClassType,
		Template: "cannot assign to {{.Target}}",
	},
	"TYPE-0006": {
		Class:    ClassType,
		Template: "rep expects an integer or a list, got '{{.Type}}'",
	},
	"TYPE-0007": {
		Class:    ClassType,
		Template: "bad operand type for unary {{.Operator}}: '{{.Type}}'",
	},
	"TYPE-0008": {
		Class:    ClassType,
		Template: "cannot convert '{{.Type}}' value with unit {{.Unit}}",
	},
	"TYPE-0009": {
		Class:    ClassType,
		Template: "repeated text would exceed {{.Limit}} characters",
	},

	// Unit errors (UNIT-0xxx)
	"UNIT-0001": {
		Class:    ClassUnit,
		Template: "cannot convert {{.From}} ({{.FromCategory}}) to {{.To}} ({{.ToCategory}})",
	},
	"UNIT-0002": {
		Class:    ClassUnit,
		Template: "incompatible units for {{.Operator}}: {{.Left}} ({{.LeftCategory}}) and {{.Right}} ({{.RightCategory}})",
	},
	"UNIT-0003": {
		Class:    ClassUnit,
		Template: "unknown unit '{{.Unit}}'",
	},
	"UNIT-0004": {
		Class:    ClassUnit,
		Template: "unit '{{.Unit}}' has an offset and cannot be used {{.Where}}",
	},

	// Assertion errors (ASSERT-0xxx)
	"ASSERT-0001": {
		Class:    ClassAssertion,
		Template: "assertion failed: {{.Expression}}",
	},

	// Division errors (ZERO-0xxx)
	"ZERO-0001": {
		Class:    ClassZeroDivide,
		Template: "{{.Operator}} by zero",
	},

	// Control flow errors (CTRL-0xxx)
	"CTRL-0001": {
		Class:    ClassSyntax,
		Template: "'{{.Keyword}}' outside loop",
	},
}

// New creates a UnitXError from the catalog using English messages.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *UnitXError {
	return NewLocalized(language.English, code, data)
}

// NewLocalized creates a UnitXError whose message and hints are rendered in
// the language closest to tag.
func NewLocalized(tag language.Tag, code string, data map[string]any) *UnitXError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &UnitXError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	p := message.NewPrinter(MatchLanguage(tag))
	msg := renderTemplate(p.Sprintf(message.Key(code, def.Template)), data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		if rendered := renderTemplate(hintTmpl, data); rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &UnitXError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewWithPosition creates a UnitXError with position information.
func NewWithPosition(code string, line, column int, data map[string]any) *UnitXError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// NewSimple creates an error without using the catalog.
func NewSimple(class ErrorClass, message string) *UnitXError {
	return &UnitXError{
		Class:   class,
		Message: message,
	}
}

func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}
