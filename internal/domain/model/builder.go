package model

import (
	"errors"
	"fmt"

	"github.com/markwash/meta/internal/domain/shared"
)

// TypeBuilder collects the declarations of a model type. Declaration
// mistakes are recorded as they happen and reported together by Build.
type TypeBuilder struct {
	name        string
	bases       []*Type
	fields      []field
	methods     map[string]Method
	methodNames []string
	init        InitFunc
	errs        []error
}

// NewType starts the declaration of a model type
func NewType(name string) *TypeBuilder {
	b := &TypeBuilder{
		name:    name,
		methods: make(map[string]Method),
	}
	if name == "" {
		b.fail("type name cannot be empty")
	}
	return b
}

func (b *TypeBuilder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w: %s: %s", shared.ErrInvalidConfiguration, b.name, fmt.Sprintf(format, args...)))
}

// Extends adds direct base types. Their properties are initialized on every
// instance of the new type and their methods are inherited.
func (b *TypeBuilder) Extends(bases ...*Type) *TypeBuilder {
	for _, base := range bases {
		if base == nil {
			b.fail("base type cannot be nil")
			continue
		}
		for _, existing := range b.bases {
			if existing == base {
				b.fail("duplicate base type %s", base.name)
			}
		}
		b.bases = append(b.bases, base)
	}
	return b
}

// Property declares field backed by p. If p has no name yet it takes the
// field's name when the type is built.
func (b *TypeBuilder) Property(name string, p *Property) *TypeBuilder {
	switch {
	case name == "":
		b.fail("field name cannot be empty")
		return b
	case p == nil:
		b.fail("field %s has nil property", name)
		return b
	case b.declared(name):
		b.fail("field %s declared twice", name)
		return b
	}
	b.fields = append(b.fields, field{name: name, prop: p})
	return b
}

// Field declares each name with a fresh, unnamed property.
func (b *TypeBuilder) Field(names ...string) *TypeBuilder {
	for _, name := range names {
		b.Property(name, NewProperty(""))
	}
	return b
}

// Method declares a named method.
func (b *TypeBuilder) Method(name string, fn Method) *TypeBuilder {
	switch {
	case name == "":
		b.fail("method name cannot be empty")
		return b
	case fn == nil:
		b.fail("method %s is nil", name)
		return b
	case b.declared(name):
		b.fail("method %s conflicts with an existing declaration", name)
		return b
	}
	b.methods[name] = fn
	b.methodNames = append(b.methodNames, name)
	return b
}

// Init sets the custom construction logic of the type.
func (b *TypeBuilder) Init(fn InitFunc) *TypeBuilder {
	if b.init != nil {
		b.fail("init declared twice")
	}
	b.init = fn
	return b
}

func (b *TypeBuilder) declared(name string) bool {
	if _, ok := b.methods[name]; ok {
		return true
	}
	for _, f := range b.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

// Build binds unnamed properties to their field names and returns the
// immutable type.
func (b *TypeBuilder) Build() (*Type, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	t := &Type{
		name:        b.name,
		bases:       append([]*Type(nil), b.bases...),
		fields:      append([]field(nil), b.fields...),
		properties:  make(map[string]*Property, len(b.fields)),
		methods:     make(map[string]Method, len(b.methods)),
		methodNames: append([]string(nil), b.methodNames...),
		init:        b.init,
	}
	if err := t.checkStorageNames(); err != nil {
		return nil, err
	}
	for _, f := range t.fields {
		f.prop.bind(f.name)
		t.properties[f.name] = f.prop
	}
	for name, fn := range b.methods {
		t.methods[name] = fn
	}
	return t, nil
}

// storageName is the key f's property will store under once bound.
func (f field) storageName() string {
	if f.prop.name != "" {
		return f.prop.name
	}
	return f.name
}

// checkStorageNames rejects two distinct fields, own or inherited, that
// would share one storage entry. A field redeclared under the same name
// shares its base's entry on purpose and is allowed.
func (t *Type) checkStorageNames() error {
	owner := make(map[string]string)
	users := make(map[*Property]string)
	var errs []error
	t.walk(func(cur *Type) bool {
		for _, f := range cur.fields {
			if prev, ok := users[f.prop]; ok && prev != f.name {
				errs = append(errs, fmt.Errorf("%w: %s: fields %s and %s share one property",
					shared.ErrInvalidConfiguration, t.name, prev, f.name))
				continue
			}
			users[f.prop] = f.name

			key := f.storageName()
			prev, ok := owner[key]
			switch {
			case !ok:
				owner[key] = f.name
			case prev != f.name:
				errs = append(errs, fmt.Errorf("%w: %s: fields %s and %s both store under %q",
					shared.ErrInvalidConfiguration, t.name, prev, f.name, key))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// MustBuild is like Build but panics on a declaration error. It is meant for
// package-level type variables.
func (b *TypeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
