package model

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Parse builds the Interface for typeName from a single Go source file.
func Parse(filename string, src []byte, typeName string) (*Interface, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fromScanner(err)
	}
	return FromFiles(fset, []*ast.File{f}, map[string][]byte{filename: src}, typeName)
}

// FromFiles builds the Interface for typeName from the parsed files of one
// package. The files must have been parsed with comments.
//
// sources maps file names, as recorded in fset, to file contents. It is only
// used to fill [Interface.Sources] and may be nil.
//
// Every problem found is reported. The returned error is a
// *multierror.Error of *ParseError; no Interface is returned with it.
func FromFiles(fset *token.FileSet, files []*ast.File, sources map[string][]byte, typeName string) (*Interface, error) {
	p := &builder{
		fset:     fset,
		sources:  sources,
		typeName: typeName,
	}
	return p.run(files)
}

type builder struct {
	fset     *token.FileSet
	sources  map[string][]byte
	typeName string
	errs     *multierror.Error
}

func (p *builder) errorf(pos token.Pos, format string, args ...any) {
	p.errs = multierror.Append(p.errs, &ParseError{
		Pos: p.fset.Position(pos),
		Msg: fmt.Sprintf(format, args...),
	})
}

func (p *builder) run(files []*ast.File) (*Interface, error) {
	var fcs []*fileCtx
	for _, f := range files {
		if isOwnOutput(f) {
			continue
		}
		fcs = append(fcs, newFileCtx(p.fset, f))
	}
	sort.SliceStable(fcs, func(i, j int) bool {
		return fcs[i].name < fcs[j].name
	})

	var spec *ast.TypeSpec
	var declFile *fileCtx
	for _, fc := range fcs {
		for _, decl := range fc.file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok || ts.Name.Name != p.typeName {
					continue
				}
				if spec != nil {
					p.errorf(ts.Name.Pos(), "type %s redeclared", p.typeName)
					continue
				}
				spec, declFile = ts, fc
			}
		}
	}
	if spec == nil {
		p.errorf(token.NoPos, "type %s is not declared", p.typeName)
		return nil, p.errs.ErrorOrNil()
	}
	if spec.TypeParams != nil && len(spec.TypeParams.List) > 0 {
		p.errorf(spec.Name.Pos(), "type %s has type parameters, which are not supported", p.typeName)
		return nil, p.errs.ErrorOrNil()
	}
	if spec.Assign.IsValid() {
		p.errorf(spec.Name.Pos(), "type %s is an alias, which is not supported", p.typeName)
		return nil, p.errs.ErrorOrNil()
	}

	iface := &Interface{
		Name:    p.typeName,
		Package: declFile.file.Name.Name,
	}
	contributing := map[*fileCtx]bool{declFile: true}
	seen := make(map[string]token.Pos)
	imports := make(map[Import]bool)

	add := func(fc *fileCtx, name *ast.Ident, ft *ast.FuncType) {
		if prev, dup := seen[name.Name]; dup {
			p.errorf(name.Pos(), "method %s.%s redeclared, previous declaration at %s", p.typeName, name.Name, p.fset.Position(prev))
			return
		}
		seen[name.Name] = name.Pos()
		contributing[fc] = true
		if m, ok := p.method(fc, name, ft, imports); ok {
			iface.Methods = append(iface.Methods, m)
		}
	}

	if it, ok := spec.Type.(*ast.InterfaceType); ok {
		iface.Kind = KindInterface
		for _, field := range it.Methods.List {
			if len(field.Names) == 0 {
				p.errorf(field.Pos(), "embedded %s in interface %s is not supported", types.ExprString(field.Type), p.typeName)
				continue
			}
			ft, ok := field.Type.(*ast.FuncType)
			if !ok {
				continue
			}
			for _, name := range field.Names {
				if !name.IsExported() || ignored(field.Doc) {
					continue
				}
				add(declFile, name, ft)
			}
		}
	} else {
		iface.Kind = KindConcrete
		for _, fc := range fcs {
			for _, decl := range fc.file.Decls {
				fd, ok := decl.(*ast.FuncDecl)
				if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
					continue
				}
				base, pointer := receiverBase(fd.Recv.List[0].Type)
				if base != p.typeName || !fd.Name.IsExported() || ignored(fd.Doc) {
					continue
				}
				if pointer {
					iface.Pointer = true
				}
				add(fc, fd.Name, fd.Type)
			}
		}
	}

	if len(seen) == 0 {
		p.errorf(spec.Name.Pos(), "type %s has no exported methods to dispatch", p.typeName)
	}
	if err := p.errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	iface.Imports = sortedImports(imports)
	for _, fc := range fcs {
		if !contributing[fc] {
			continue
		}
		if src, ok := p.source(fc); ok {
			iface.Sources = append(iface.Sources, src)
		}
	}
	return iface, nil
}

func (p *builder) method(fc *fileCtx, name *ast.Ident, ft *ast.FuncType, imports map[Import]bool) (Method, bool) {
	m := Method{
		Name:  name.Name,
		Error: "error",
	}
	ok := true

	fields := make(map[string]string)
	i := 0
	for _, field := range ft.Params.List {
		typ := field.Type
		variadic := false
		if ell, isEll := typ.(*ast.Ellipsis); isEll {
			typ, variadic = ell.Elt, true
		}
		if len(field.Names) == 0 {
			i++
			p.errorf(field.Pos(), "parameter %d of %s has no name", i, name.Name)
			ok = false
			continue
		}
		for _, pn := range field.Names {
			i++
			if pn.Name == "_" {
				p.errorf(pn.Pos(), "parameter %d of %s is blank; every parameter needs a name", i, name.Name)
				ok = false
				continue
			}
			if i == 1 && fc.isContext(typ) {
				m.Context = true
				m.ContextName = pn.Name
				continue
			}
			fname := ExportName(pn.Name)
			if prev, dup := fields[fname]; dup {
				p.errorf(pn.Pos(), "parameters %s and %s of %s both map to request field %s", prev, pn.Name, name.Name, fname)
				ok = false
				continue
			}
			fields[fname] = pn.Name
			fc.collect(typ, imports)
			m.Params = append(m.Params, Param{
				Name:     pn.Name,
				Type:     types.ExprString(typ),
				Variadic: variadic,
				Field:    fname,
			})
		}
	}

	var results []ast.Expr
	pos := name.Pos()
	if ft.Results != nil {
		pos = ft.Results.Pos()
		for _, field := range ft.Results.List {
			n := len(field.Names)
			if n == 0 {
				n = 1
			}
			for j := 0; j < n; j++ {
				results = append(results, field.Type)
			}
		}
	}
	switch {
	case len(results) == 0:
		p.errorf(pos, "method %s has no results; expected (T, error) or error", name.Name)
		return m, false
	case len(results) > 2:
		p.errorf(pos, "method %s returns %d results; expected (T, error) or error", name.Name, len(results))
		return m, false
	case !isError(results[len(results)-1]):
		p.errorf(pos, "method %s must return error as its last result, got %s", name.Name, types.ExprString(results[len(results)-1]))
		return m, false
	}
	if len(results) == 2 {
		fc.collect(results[0], imports)
		m.Success = types.ExprString(results[0])
	}
	return m, ok
}

func (p *builder) source(fc *fileCtx) (Source, bool) {
	src, ok := p.sources[fc.name]
	if !ok {
		return Source{}, false
	}
	start := fc.file.Name.End()
	for _, decl := range fc.file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			start = gd.End()
		}
	}
	off := p.fset.Position(start).Offset
	if off < 0 || off > len(src) {
		return Source{}, false
	}
	return Source{
		Filename: fc.name,
		Imports:  fc.all,
		Body:     bytes.TrimSpace(src[off:]),
	}, true
}

type fileCtx struct {
	file *ast.File
	name string

	// imports by the name they are referred to with in the file
	byName map[string]Import
	all    []Import
}

func newFileCtx(fset *token.FileSet, f *ast.File) *fileCtx {
	fc := &fileCtx{
		file:   f,
		name:   fset.Position(f.Package).Filename,
		byName: make(map[string]Import),
	}
	for _, spec := range f.Imports {
		ipath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		im := Import{Path: ipath}
		if spec.Name != nil {
			im.Name = spec.Name.Name
		}
		fc.all = append(fc.all, im)
		switch im.Name {
		case "_", ".":
		case "":
			fc.byName[assumedName(ipath)] = im
		default:
			fc.byName[im.Name] = im
		}
	}
	return fc
}

func (fc *fileCtx) lookup(name string) (Import, bool) {
	if im, ok := fc.byName[name]; ok {
		return im, true
	}
	// The package name may not be derivable from its path.
	for _, im := range fc.all {
		if im.Name == "" && strings.Contains(path.Base(im.Path), name) {
			return im, true
		}
	}
	return Import{}, false
}

func (fc *fileCtx) isContext(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	if !ok {
		return false
	}
	im, ok := fc.lookup(x.Name)
	return ok && im.Path == "context"
}

// collect records the imports a type expression refers to.
func (fc *fileCtx) collect(expr ast.Expr, into map[Import]bool) {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if x, ok := sel.X.(*ast.Ident); ok {
			if im, ok := fc.lookup(x.Name); ok {
				into[im] = true
			}
		}
		return false
	})
}

func sortedImports(set map[Import]bool) []Import {
	out := make([]Import, 0, len(set))
	for im := range set {
		out = append(out, im)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// assumedName guesses the package name of an import path the way goimports
// does when it cannot load the package.
func assumedName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexAny(base, ".-"); i >= 0 {
		base = base[:i]
	}
	return base
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isError(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "error"
}

func ignored(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, IgnoreDirective) {
			return true
		}
	}
	return false
}

func receiverBase(expr ast.Expr) (name string, pointer bool) {
	for {
		switch t := expr.(type) {
		case *ast.ParenExpr:
			expr = t.X
		case *ast.StarExpr:
			expr, pointer = t.X, true
		case *ast.Ident:
			return t.Name, pointer
		default:
			return "", pointer
		}
	}
}

func isOwnOutput(f *ast.File) bool {
	for _, cg := range f.Comments {
		if cg.Pos() >= f.Package {
			break
		}
		for _, c := range cg.List {
			if strings.Contains(c.Text, GeneratedBy) {
				return true
			}
		}
	}
	return false
}
