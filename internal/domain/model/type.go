package model

import (
	"fmt"

	"github.com/markwash/meta/internal/domain/shared"
)

// Method is a named behaviour declared on a model type. self is the instance
// the call was made on.
type Method func(self *Instance, args ...any) (any, error)

// InitFunc is custom construction logic. It runs after every declared
// property, own and inherited, has consumed its keyword, and receives what
// is left.
type InitFunc func(self *Instance, args Args) error

// field binds a declared attribute name to its property.
type field struct {
	name string
	prop *Property
}

// Type is a built model type. It is immutable and safe to share.
type Type struct {
	name        string
	bases       []*Type
	fields      []field
	properties  map[string]*Property
	methods     map[string]Method
	methodNames []string
	init        InitFunc
}

// Name returns the type name
func (t *Type) Name() string {
	return t.name
}

// String implements fmt.Stringer
func (t *Type) String() string {
	return t.name
}

// Bases returns the direct base types in declaration order
func (t *Type) Bases() []*Type {
	return append([]*Type(nil), t.bases...)
}

// HasInit reports whether the type declares its own init function
func (t *Type) HasInit() bool {
	return t.init != nil
}

// walk visits t and its ancestry depth first in base order, each type once.
// It stops early when fn returns false.
func (t *Type) walk(fn func(*Type) bool) {
	seen := make(map[*Type]bool)
	var visit func(*Type) bool
	visit = func(cur *Type) bool {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		if !fn(cur) {
			return false
		}
		for _, b := range cur.bases {
			if !visit(b) {
				return false
			}
		}
		return true
	}
	visit(t)
}

// Property returns the property declared for field, looking at t first and
// then its ancestry. This is the type-level view of a slot: the descriptor
// itself rather than any instance's value.
func (t *Type) Property(field string) (*Property, bool) {
	var found *Property
	t.walk(func(cur *Type) bool {
		if p, ok := cur.properties[field]; ok {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// OwnFields returns the fields declared directly on t in declaration order.
func (t *Type) OwnFields() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.name
	}
	return names
}

// AllFields returns the fields of t followed by inherited ones, each name once.
func (t *Type) AllFields() []string {
	var names []string
	seen := make(map[string]bool)
	t.walk(func(cur *Type) bool {
		for _, f := range cur.fields {
			if !seen[f.name] {
				seen[f.name] = true
				names = append(names, f.name)
			}
		}
		return true
	})
	return names
}

// OwnMethods returns the method names declared directly on t in declaration order.
func (t *Type) OwnMethods() []string {
	return append([]string(nil), t.methodNames...)
}

// Method resolves name on t and then its ancestry.
func (t *Type) Method(name string) (Method, bool) {
	var found Method
	t.walk(func(cur *Type) bool {
		if m, ok := cur.methods[name]; ok {
			found = m
			return false
		}
		return true
	})
	return found, found != nil
}

// IsA reports whether t is other or derives from it.
func (t *Type) IsA(other *Type) bool {
	if other == nil {
		return false
	}
	is := false
	t.walk(func(cur *Type) bool {
		is = cur == other
		return !is
	})
	return is
}

// New constructs an instance from keyword arguments.
func (t *Type) New(kwargs Kwargs) (*Instance, error) {
	return t.Construct(Args{Keyword: kwargs})
}

// Construct allocates an instance and runs Initialize on it. No instance is
// returned when construction fails.
func (t *Type) Construct(args Args) (*Instance, error) {
	inst := newInstance(t)
	if err := t.Initialize(inst, args); err != nil {
		return nil, err
	}
	return inst, nil
}

// Initialize runs the construction steps of t against an existing instance of
// t or of a type derived from it:
//
//  1. every property declared on t and its ancestry gets a storage entry and
//     consumes the keyword of the same field name, own declarations first;
//  2. t's init function receives the remaining arguments;
//  3. without an init function, any remaining argument is an *ArgumentError.
//
// An init function calls a base type's Initialize to run that base's init.
func (t *Type) Initialize(inst *Instance, args Args) error {
	if inst == nil {
		return fmt.Errorf("%w: cannot initialize nil %s instance", shared.ErrInvalidInput, t.name)
	}
	if !inst.typ.IsA(t) {
		return fmt.Errorf("%w: %s instance is not a %s", shared.ErrInvalidInput, inst.typ.name, t.name)
	}
	if inst.storage == nil {
		inst.storage = make(storage)
	}

	args = args.Clone()
	t.walk(func(cur *Type) bool {
		cur.initProperties(inst, args.Keyword)
		return true
	})

	if t.init != nil {
		return t.init(inst, args)
	}
	if !args.Empty() {
		return NewArgumentError(t.name, args)
	}
	return nil
}

// initProperties ensures a cell for each property declared on t and moves
// matching keywords into storage.
func (t *Type) initProperties(inst *Instance, kwargs Kwargs) {
	for _, f := range t.fields {
		inst.storage.ensure(f.prop.name)
		if v, ok := kwargs.pop(f.name); ok {
			f.prop.Set(inst, v)
		}
	}
}
