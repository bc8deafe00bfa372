package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"

	"github.com/markwash/meta/internal/domain/proxy"
	"github.com/markwash/meta/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	modelImport = "github.com/markwash/meta/internal/domain/model"
	proxyImport = "github.com/markwash/meta/internal/domain/proxy"
)

// reserved are selectors the generated wrappers already use, either their
// own or promoted from the embedded instance.
var reserved = map[string]bool{
	"Attr":     true,
	"Call":     true,
	"Fields":   true,
	"Get":      true,
	"ID":       true,
	"Instance": true,
	"Set":      true,
	"SetAttr":  true,
	"String":   true,
	"Target":   true,
	"Type":     true,
	"Value":    true,
	"Wrapped":  true,
}

var initialisms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"json": "JSON",
	"url":  "URL",
	"uuid": "UUID",
}

// Options controls generated output
type Options struct {
	Header string
	Format bool
}

// Generator renders typed wrappers for a schema. It is not safe for
// concurrent use.
type Generator struct {
	opts   Options
	logger *zap.Logger
	title  cases.Caser
}

// NewGenerator creates a new generator
func NewGenerator(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Header == "" {
		opts.Header = "// Code generated by modelgen. DO NOT EDIT."
	}
	return &Generator{
		opts:   opts,
		logger: logger.Named("codegen"),
		title:  cases.Title(language.Und, cases.NoLower),
	}
}

// ExportName turns a declared field or method name into an exported Go
// identifier: "first_name" becomes FirstName and "user_id" becomes UserID.
func (g *Generator) ExportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	var b strings.Builder
	for _, part := range parts {
		if up, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(up)
			continue
		}
		b.WriteString(g.title.String(part))
	}
	return b.String()
}

// GenerateFile renders the schema at schemaPath into outPath
func (g *Generator) GenerateFile(schemaPath, outPath string) error {
	s, err := LoadSchema(schemaPath)
	if err != nil {
		return err
	}
	src, err := g.generate(s, filepath.Base(schemaPath))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, src, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	g.logger.Info("generated typed wrappers",
		zap.String("schema", schemaPath),
		zap.String("out", outPath),
		zap.Int("models", len(s.Models)),
		zap.Int("proxies", len(s.Proxies)),
	)
	return nil
}

// Generate renders the schema to Go source
func (g *Generator) Generate(s *Schema) ([]byte, error) {
	return g.generate(s, "")
}

// member is one generated accessor or call shim.
type member struct {
	decl    string // declared name in the runtime type
	goName  string
	typ     string
	params  []string
	returns string
	method  bool
}

func (g *Generator) goName(decl, override string) string {
	if override != "" {
		return override
	}
	return g.ExportName(decl)
}

func (g *Generator) fieldMember(f FieldSpec) member {
	return member{decl: f.Name, goName: g.goName(f.Name, f.Go), typ: f.Type}
}

func (g *Generator) methodMember(m MethodSpec) member {
	return member{decl: m.Name, goName: g.goName(m.Name, m.Go), params: m.Params, returns: m.Returns, method: true}
}

// ownMembers returns the members declared directly on m. Special methods
// are not forwarded by proxies and get no typed shim.
func (g *Generator) ownMembers(m *ModelSpec) []member {
	out := make([]member, 0, len(m.Fields)+len(m.Methods))
	for _, f := range m.Fields {
		out = append(out, g.fieldMember(f))
	}
	for _, fn := range m.Methods {
		if proxy.IsSpecial(fn.Name) {
			continue
		}
		out = append(out, g.methodMember(fn))
	}
	return out
}

// allMembers returns the members of m and its ancestry; own declarations
// shadow inherited ones of the same name. A shadowing member must keep the
// shape of the one it hides so the wrapper still satisfies every ancestor's
// API.
func (g *Generator) allMembers(s *Schema, m *ModelSpec) ([]member, error) {
	out := g.ownMembers(m)
	owner := make(map[string]string, len(out))
	index := make(map[string]int, len(out))
	for i, mb := range out {
		owner[mb.decl] = m.Name
		index[mb.decl] = i
	}

	var errs []error
	for _, base := range s.ancestors(m) {
		for _, mb := range g.ownMembers(base) {
			i, ok := index[mb.decl]
			if !ok {
				owner[mb.decl] = base.Name
				index[mb.decl] = len(out)
				out = append(out, mb)
				continue
			}
			if !out[i].sameShape(mb) {
				errs = append(errs, fmt.Errorf("%w: %s: %s.%s is %s but %s.%s is %s",
					shared.ErrInvalidConfiguration, m.Name,
					owner[mb.decl], mb.decl, out[i].signature(),
					base.Name, mb.decl, mb.signature()))
			}
		}
	}
	return out, errors.Join(errs...)
}

func (mb member) sameShape(other member) bool {
	return mb.signature() == other.signature()
}

// signature renders the Go declaration the member generates.
func (mb member) signature() string {
	if mb.method {
		return fmt.Sprintf("%s(%s) %s", mb.goName, paramList(mb.params), resultList(mb.returns))
	}
	return fmt.Sprintf("%s() %s", mb.goName, mb.typ)
}

// checkNames rejects members whose generated identifiers collide with each
// other, with the wrapper's own selectors or with an AsX conversion.
func checkNames(s *Schema, owner string, members []member) error {
	used := make(map[string]string)
	var errs []error
	claim := func(ident, decl string) {
		_, conversion := s.Model(strings.TrimPrefix(ident, "As"))
		if reserved[ident] || strings.HasPrefix(ident, "As") && conversion {
			errs = append(errs, fmt.Errorf("%w: %s: %s generates reserved identifier %s", shared.ErrInvalidConfiguration, owner, decl, ident))
			return
		}
		if prev, ok := used[ident]; ok {
			errs = append(errs, fmt.Errorf("%w: %s: %s and %s both generate %s", shared.ErrInvalidConfiguration, owner, prev, decl, ident))
			return
		}
		used[ident] = decl
	}
	for _, mb := range members {
		if mb.goName == "" {
			errs = append(errs, fmt.Errorf("%w: %s: %q has no exportable name", shared.ErrInvalidConfiguration, owner, mb.decl))
			continue
		}
		claim(mb.goName, mb.decl)
		if !mb.method {
			claim("Set"+mb.goName, mb.decl)
		}
	}
	return errors.Join(errs...)
}

func (g *Generator) generate(s *Schema, source string) ([]byte, error) {
	g.logger.Debug("rendering schema",
		zap.String("package", s.Package),
		zap.String("source", source),
	)

	w := &writer{}
	w.line("%s", g.opts.Header)
	if source != "" {
		w.line("// source: %s", source)
	}
	w.line("")
	w.line("package %s", s.Package)

	if len(s.Models) > 0 {
		w.line("")
		w.line("import (")
		w.line("\t%q", modelImport)
		if len(s.Proxies) > 0 {
			w.line("\t%q", proxyImport)
		}
		w.line(")")
	}

	for i := range s.Models {
		m := &s.Models[i]
		all, err := g.allMembers(s, m)
		if err != nil {
			return nil, err
		}
		if err := checkNames(s, m.Name, all); err != nil {
			return nil, err
		}
		g.writeModel(w, s, m, all)
	}
	for _, p := range s.Proxies {
		wrapped, _ := s.Model(p.Wraps)
		own := g.ownMembers(wrapped)
		if err := checkNames(s, p.Name, own); err != nil {
			return nil, err
		}
		g.writeProxy(w, p, own)
	}

	if !g.opts.Format {
		return w.Bytes(), nil
	}
	src, err := format.Source(w.Bytes())
	if err != nil {
		g.logger.Error("generated source does not parse", zap.Error(err))
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func (g *Generator) writeModel(w *writer, s *Schema, m *ModelSpec, all []member) {
	w.line("")
	w.line("// %sAPI lists the members declared by %s.", m.Name, m.Name)
	w.line("type %sAPI interface {", m.Name)
	for _, mb := range g.ownMembers(m) {
		if mb.method {
			w.line("\t%s(%s) %s", mb.goName, paramList(mb.params), resultList(mb.returns))
			continue
		}
		w.line("\t%s() %s", mb.goName, mb.typ)
		w.line("\tSet%s(v %s) error", mb.goName, mb.typ)
	}
	w.line("}")

	w.line("")
	w.line("// %s is a typed view of a %s instance.", m.Name, m.Var)
	w.line("type %s struct {", m.Name)
	w.line("\t*model.Instance")
	w.line("}")

	ancestors := s.ancestors(m)
	w.line("")
	w.line("var _ %sAPI = %s{}", m.Name, m.Name)
	for _, base := range ancestors {
		w.line("var _ %sAPI = %s{}", base.Name, m.Name)
	}

	w.line("")
	w.line("// New%s constructs a %s from keyword arguments.", m.Name, m.Name)
	w.line("func New%s(kwargs model.Kwargs) (%s, error) {", m.Name, m.Name)
	w.line("\tinst, err := %s.New(kwargs)", m.Var)
	w.line("\tif err != nil {")
	w.line("\t\treturn %s{}, err", m.Name)
	w.line("\t}")
	w.line("\treturn %s{Instance: inst}, nil", m.Name)
	w.line("}")

	for _, base := range ancestors {
		w.line("")
		w.line("// As%s returns the %s view of the same instance.", base.Name, base.Name)
		w.line("func (x %s) As%s() %s {", m.Name, base.Name, base.Name)
		w.line("\treturn %s{Instance: x.Instance}", base.Name)
		w.line("}")
	}

	writeMembers(w, m.Name, all)
}

func (g *Generator) writeProxy(w *writer, p ProxySpec, own []member) {
	w.line("")
	w.line("// %s is a typed view of a %s proxy.", p.Name, p.Var)
	w.line("type %s struct {", p.Name)
	w.line("\t*proxy.Instance")
	w.line("}")

	w.line("")
	w.line("var _ %sAPI = %s{}", p.Wraps, p.Name)

	w.line("")
	w.line("// New%s attaches a %s to wrapped.", p.Name, p.Name)
	w.line("func New%s(wrapped %s, args model.Args) (%s, error) {", p.Name, p.Wraps, p.Name)
	w.line("\tp, err := %s.New(wrapped.Instance, args)", p.Var)
	w.line("\tif err != nil {")
	w.line("\t\treturn %s{}, err", p.Name)
	w.line("\t}")
	w.line("\treturn %s{Instance: p}, nil", p.Name)
	w.line("}")

	w.line("")
	w.line("// Target returns the wrapped %s.", p.Wraps)
	w.line("func (x %s) Target() %s {", p.Name, p.Wraps)
	w.line("\treturn %s{Instance: x.Instance.Wrapped()}", p.Wraps)
	w.line("}")

	writeMembers(w, p.Name, own)
}

func writeMembers(w *writer, recv string, members []member) {
	for _, mb := range members {
		if mb.method {
			writeMethod(w, recv, mb)
		} else {
			writeField(w, recv, mb)
		}
	}
}

func writeField(w *writer, recv string, mb member) {
	w.line("")
	w.line("// %s returns the %s property.", mb.goName, mb.decl)
	w.line("func (x %s) %s() %s {", recv, mb.goName, mb.typ)
	if mb.typ == "any" {
		w.line("\treturn x.Instance.Value(%q)", mb.decl)
	} else {
		w.line("\tv, _ := x.Instance.Value(%q).(%s)", mb.decl, mb.typ)
		w.line("\treturn v")
	}
	w.line("}")

	w.line("")
	w.line("// Set%s stores the %s property.", mb.goName, mb.decl)
	w.line("func (x %s) Set%s(v %s) error {", recv, mb.goName, mb.typ)
	w.line("\treturn x.Instance.Set(%q, v)", mb.decl)
	w.line("}")
}

func writeMethod(w *writer, recv string, mb member) {
	callArgs := fmt.Sprintf("%q", mb.decl)
	for i := range mb.params {
		callArgs += fmt.Sprintf(", p%d", i)
	}

	w.line("")
	w.line("// %s calls the %s method.", mb.goName, mb.decl)
	w.line("func (x %s) %s(%s) %s {", recv, mb.goName, paramList(mb.params), resultList(mb.returns))
	switch mb.returns {
	case "":
		w.line("\t_, err := x.Instance.Call(%s)", callArgs)
		w.line("\treturn err")
	case "any":
		w.line("\treturn x.Instance.Call(%s)", callArgs)
	default:
		w.line("\tout, err := x.Instance.Call(%s)", callArgs)
		w.line("\tif err != nil {")
		w.line("\t\tvar zero %s", mb.returns)
		w.line("\t\treturn zero, err")
		w.line("\t}")
		w.line("\tv, _ := out.(%s)", mb.returns)
		w.line("\treturn v, nil")
	}
	w.line("}")
}

func paramList(params []string) string {
	parts := make([]string, len(params))
	for i, typ := range params {
		parts[i] = fmt.Sprintf("p%d %s", i, typ)
	}
	return strings.Join(parts, ", ")
}

func resultList(returns string) string {
	if returns == "" {
		return "error"
	}
	return fmt.Sprintf("(%s, error)", returns)
}

// writer accumulates generated source line by line.
type writer struct {
	bytes.Buffer
}

func (w *writer) line(tmpl string, args ...any) {
	fmt.Fprintf(&w.Buffer, tmpl, args...)
	w.WriteByte('\n')
}
