package model

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/matryer/is"
)

const echoSrc = `package example

import (
	"context"
	"errors"
)

var ErrEmptyString = errors.New("empty string")

type Example struct{}

func (Example) Echo(ctx context.Context, text string) (string, error) {
	return text, nil
}

func (Example) Reverse(ctx context.Context, text string) (string, error) {
	return text, nil
}

func (Example) helper() {}
`

func TestParseConcrete(t *testing.T) {
	is := is.New(t)

	iface, err := Parse("example.go", []byte(echoSrc), "Example")
	is.NoErr(err)
	is.Equal(iface.Name, "Example")
	is.Equal(iface.Package, "example")
	is.Equal(iface.Kind, KindConcrete)
	is.True(!iface.Pointer)
	is.Equal(iface.ImplType(), "Example")
	is.Equal(len(iface.Methods), 2)
	is.Equal(len(iface.Imports), 0) // context is not part of any request

	echo := iface.Methods[0]
	is.Equal(echo.Name, "Echo")
	is.True(echo.Context)
	is.Equal(echo.ContextName, "ctx")
	is.Equal(echo.Params, []Param{{Name: "text", Type: "string", Field: "Text"}})
	is.Equal(echo.Success, "string")
	is.Equal(echo.Error, "error")
	is.Equal(iface.Methods[1].Name, "Reverse")

	_, ok := iface.Method("helper")
	is.True(!ok) // unexported methods are skipped

	is.Equal(len(iface.Sources), 1)
	src := iface.Sources[0]
	is.Equal(src.Filename, "example.go")
	is.Equal(src.Imports, []Import{{Path: "context"}, {Path: "errors"}})
	is.True(strings.HasPrefix(string(src.Body), "var ErrEmptyString"))
	is.True(strings.HasSuffix(string(src.Body), "func (Example) helper() {}"))
}

func TestParseInterface(t *testing.T) {
	is := is.New(t)

	src := `package store

import (
	"context"
	"time"

	kv "example.com/kv/v2"
)

type Store interface {
	Get(ctx context.Context, key string) (kv.Value, error)
	Put(ctx context.Context, key string, value kv.Value, ttl time.Duration) error
	Keys(prefix string, limit int) ([]string, error)
	close() error
}
`
	iface, err := Parse("store.go", []byte(src), "Store")
	is.NoErr(err)
	is.Equal(iface.Kind, KindInterface)
	is.Equal(len(iface.Methods), 3)
	is.Equal(iface.Imports, []Import{{Name: "kv", Path: "example.com/kv/v2"}, {Path: "time"}})

	put, _ := iface.Method("Put")
	is.True(!put.HasSuccess())
	is.Equal(len(put.Params), 3)
	is.Equal(put.Params[2], Param{Name: "ttl", Type: "time.Duration", Field: "TTL"})

	keys, _ := iface.Method("Keys")
	is.True(!keys.Context)
	is.Equal(keys.Success, "[]string")
}

func TestParsePointerReceiverAndVariadic(t *testing.T) {
	is := is.New(t)

	src := `package logs

import stdctx "context"

type Sink struct{}

func (s *Sink) Write(c stdctx.Context, level int, lines ...string) (int, error) {
	return len(lines), nil
}

func (s Sink) Flush() error { return nil }
`
	iface, err := Parse("sink.go", []byte(src), "Sink")
	is.NoErr(err)
	is.True(iface.Pointer)
	is.Equal(iface.ImplType(), "*Sink")

	w := iface.Methods[0]
	is.True(w.Context)
	is.Equal(w.ContextName, "c")
	is.True(w.Variadic())
	is.Equal(w.Params[1].FieldType(), "[]string")
	is.Equal(w.Params[1].DeclType(), "...string")

	flush := iface.Methods[1]
	is.True(!flush.Context)
	is.Equal(len(flush.Params), 0)
}

func TestParseContextNotFirst(t *testing.T) {
	is := is.New(t)

	src := `package p

import "context"

type T struct{}

func (T) Run(name string, ctx context.Context) error { return nil }
`
	iface, err := Parse("t.go", []byte(src), "T")
	is.NoErr(err)
	run := iface.Methods[0]
	is.True(!run.Context)
	is.Equal(len(run.Params), 2)
	is.Equal(run.Params[1].Type, "context.Context")
	is.Equal(iface.Imports, []Import{{Path: "context"}})
}

func TestParseParamNamedAfterType(t *testing.T) {
	is := is.New(t)

	src := `package p

type T struct{}

func (T) Echo(string string) (string, error) { return string, nil }
`
	iface, err := Parse("t.go", []byte(src), "T")
	is.NoErr(err)
	is.Equal(iface.Methods[0].Params, []Param{{Name: "string", Type: "string", Field: "String"}})
}

func TestParseIgnoreDirective(t *testing.T) {
	is := is.New(t)

	src := `package p

type T struct{}

func (T) A() error { return nil }

// B is only for local use.
//
//dispatchgen:ignore
func (T) B() int { return 0 }
`
	iface, err := Parse("t.go", []byte(src), "T")
	is.NoErr(err)
	is.Equal(len(iface.Methods), 1)
	is.Equal(iface.Methods[0].Name, "A")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		typeName string
		want     []string
	}{
		{
			name: "missing type",
			src: `package p
`,
			typeName: "T",
			want:     []string{"type T is not declared"},
		},
		{
			name: "duplicate interface method",
			src: `package p

type T interface {
	A() error
	A() error
}
`,
			typeName: "T",
			want:     []string{"method T.A redeclared"},
		},
		{
			name: "no results",
			src: `package p

type T struct{}

func (T) A(x int) {}
`,
			typeName: "T",
			want:     []string{"method A has no results"},
		},
		{
			name: "no error result",
			src: `package p

type T struct{}

func (T) A() (int, string) { return 0, "" }
`,
			typeName: "T",
			want:     []string{"method A must return error as its last result, got string"},
		},
		{
			name: "too many results",
			src: `package p

type T struct{}

func (T) A() (int, int, error) { return 0, 0, nil }
`,
			typeName: "T",
			want:     []string{"method A returns 3 results"},
		},
		{
			name: "unnamed and blank parameters",
			src: `package p

type T interface {
	A(int) error
	B(_ string) error
}
`,
			typeName: "T",
			want: []string{
				"parameter 1 of A has no name",
				"parameter 1 of B is blank",
			},
		},
		{
			name: "field collision",
			src: `package p

type T struct{}

func (T) A(id, ID int) error { return nil }
`,
			typeName: "T",
			want:     []string{"parameters id and ID of A both map to request field ID"},
		},
		{
			name: "generic type",
			src: `package p

type T[X any] struct{}
`,
			typeName: "T",
			want:     []string{"type T has type parameters"},
		},
		{
			name: "alias",
			src: `package p

type T = int
`,
			typeName: "T",
			want:     []string{"type T is an alias"},
		},
		{
			name: "embedded interface",
			src: `package p

type T interface {
	error
	A() error
}
`,
			typeName: "T",
			want:     []string{"embedded error in interface T is not supported"},
		},
		{
			name: "no exported methods",
			src: `package p

type T struct{}

func (T) a() error { return nil }
`,
			typeName: "T",
			want:     []string{"type T has no exported methods to dispatch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)

			iface, err := Parse("p.go", []byte(tt.src), tt.typeName)
			is.True(iface == nil)
			is.True(err != nil)

			perrs := ParseErrors(err)
			is.Equal(len(perrs), len(tt.want))
			for i, want := range tt.want {
				is.True(strings.Contains(perrs[i].Msg, want)) // unexpected message
			}
		})
	}
}

func TestParseReportsAllProblems(t *testing.T) {
	is := is.New(t)

	src := `package p

type T struct{}

func (T) A() {}

func (T) B(int) error { return nil }

func (T) C() (string, string) { return "", "" }
`
	_, err := Parse("p.go", []byte(src), "T")
	perrs := ParseErrors(err)
	is.Equal(len(perrs), 3)
	for _, perr := range perrs {
		is.Equal(perr.Pos.Filename, "p.go")
		is.True(perr.Pos.Line > 0)
		is.True(strings.HasPrefix(perr.Error(), "p.go:"))
	}
}

func TestParseSyntaxError(t *testing.T) {
	is := is.New(t)

	_, err := Parse("p.go", []byte("package p\n\ntype T struct{\n"), "T")
	perrs := ParseErrors(err)
	is.True(len(perrs) > 0)
	is.Equal(perrs[0].Pos.Filename, "p.go")
	is.True(perrs[0].Pos.Line >= 3)
}

func TestParseSkipsGeneratedFiles(t *testing.T) {
	is := is.New(t)

	src := `// Code generated by dispatchgen. DO NOT EDIT.

package p

type T struct{}

func (T) A() error { return nil }
`
	_, err := Parse("t_dispatch.go", []byte(src), "T")
	perrs := ParseErrors(err)
	is.Equal(len(perrs), 1)
	is.Equal(perrs[0].Msg, "type T is not declared")
}

func TestExportName(t *testing.T) {
	is := is.New(t)

	is.Equal(ExportName("text"), "Text")
	is.Equal(ExportName("id"), "ID")
	is.Equal(ExportName("url"), "URL")
	is.Equal(ExportName("userID"), "UserID")
	is.Equal(ExportName("X"), "X")
	is.Equal(ExportName(""), "")
	is.Equal(ExportName("ñame"), "Ñame")
	is.Equal(ExportName("größe"), "Größe")
}

func TestAssumedName(t *testing.T) {
	is := is.New(t)

	is.Equal(assumedName("context"), "context")
	is.Equal(assumedName("example.com/kv/v2"), "kv")
	is.Equal(assumedName("gopkg.in/yaml.v3"), "yaml")
	is.Equal(assumedName("github.com/hashicorp/go-multierror"), "multierror")
	is.Equal(assumedName("github.com/mattn/go-isatty"), "isatty")
}

func TestFromFilesDuplicateAcrossFiles(t *testing.T) {
	is := is.New(t)

	srcs := map[string]string{
		"a.go": "package p\n\ntype T struct{}\n\nfunc (T) A() error { return nil }\n",
		"b.go": "package p\n\nfunc (*T) A() error { return nil }\n",
	}
	fset := token.NewFileSet()
	var files []*ast.File
	for _, name := range []string{"b.go", "a.go"} {
		f, err := parser.ParseFile(fset, name, srcs[name], parser.ParseComments)
		is.NoErr(err)
		files = append(files, f)
	}

	iface, err := FromFiles(fset, files, nil, "T")
	is.True(iface == nil)
	perrs := ParseErrors(err)
	is.Equal(len(perrs), 1)
	is.Equal(perrs[0].Pos.Filename, "b.go") // files are visited in name order
	is.True(strings.Contains(perrs[0].Msg, "method T.A redeclared, previous declaration at a.go:5:10"))
}

func TestParseNonASCIIParameter(t *testing.T) {
	is := is.New(t)

	src := `package p

type T struct{}

func (T) Größe(ñame string) (string, error) { return ñame, nil }
`
	iface, err := Parse("t.go", []byte(src), "T")
	is.NoErr(err)
	is.Equal(iface.Methods[0].Params[0].Field, "Ñame")
}
