// Package model holds the in-memory description of a Go type whose methods
// dispatchgen turns into a request/dispatch layer.
//
// An [Interface] is produced once by [Parse] or [FromFiles] and is never
// mutated afterwards. Every synthesizer reads from it; none of them writes
// back.
package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// GeneratedBy is the marker placed in the header of every file dispatchgen
// writes. Files carrying it are ignored when building an [Interface].
const GeneratedBy = "Code generated by dispatchgen"

// IgnoreDirective excludes an exported method from generation when it
// appears in the method's doc comment.
const IgnoreDirective = "//dispatchgen:ignore"

// Kind tells whether the described type is a concrete type with declared
// methods or an interface type.
type Kind int

const (
	KindConcrete Kind = iota
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindConcrete:
		return "concrete"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// Interface describes a named type and the ordered set of methods that
// requests are generated for.
type Interface struct {
	// Name of the type, as declared.
	Name string

	// Package is the name of the package declaring the type.
	Package string

	Kind Kind

	// Pointer is true when at least one selected method has a pointer
	// receiver, in which case dispatchers hold a *Name.
	Pointer bool

	// Methods in declaration order.
	Methods []Method

	// Imports referenced by the method signatures, sorted by path.
	Imports []Import

	// Sources holds the verbatim declarations of every file that declares
	// the type or one of its selected methods, in file name order. It is
	// empty when the caller did not provide source bytes.
	Sources []Source
}

// ImplType returns the type expression a dispatcher stores its
// implementation as.
func (iface *Interface) ImplType() string {
	if iface.Pointer {
		return "*" + iface.Name
	}
	return iface.Name
}

// Method returns the method with the given name, if any.
func (iface *Interface) Method(name string) (Method, bool) {
	for _, m := range iface.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Method is the signature of a single method.
type Method struct {
	Name string

	// Context is true when the first parameter is a context.Context. That
	// parameter is not part of Params; it carries the call context.
	Context bool

	// ContextName is the declared name of the context parameter.
	ContextName string

	Params []Param

	// Success is the type of the success value, or "" when the method
	// returns only an error.
	Success string

	// Error is the type of the error value. It is always "error".
	Error string
}

// HasSuccess reports whether the method returns a success value.
func (m Method) HasSuccess() bool {
	return m.Success != ""
}

// Variadic reports whether the last parameter is variadic.
func (m Method) Variadic() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Variadic
}

// Param is a named, typed method parameter.
type Param struct {
	Name string

	// Type is the rendered type expression. For a variadic parameter it is
	// the element type.
	Type string

	Variadic bool

	// Field is the exported name the parameter takes as a request field.
	Field string
}

// FieldType returns the type of the request field holding the parameter.
func (p Param) FieldType() string {
	if p.Variadic {
		return "[]" + p.Type
	}
	return p.Type
}

// DeclType returns the type as written in a parameter list.
func (p Param) DeclType() string {
	if p.Variadic {
		return "..." + p.Type
	}
	return p.Type
}

// Import is a single import spec.
type Import struct {
	// Name is the explicit import name, empty when the package is imported
	// under its own name.
	Name string
	Path string
}

func (im Import) String() string {
	if im.Name == "" {
		return `"` + im.Path + `"`
	}
	return im.Name + ` "` + im.Path + `"`
}

// Source is the verbatim content of one input file, split into its imports
// and everything declared after them.
type Source struct {
	Filename string
	Imports  []Import
	Body     []byte
}

var initialisms = map[string]bool{
	"API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "RPC": true, "SQL": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "URI": true,
	"URL": true, "UUID": true, "XML": true,
}

// ExportName returns the exported form of an identifier.
func ExportName(name string) string {
	if name == "" {
		return ""
	}
	if up := strings.ToUpper(name); initialisms[up] {
		return up
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
