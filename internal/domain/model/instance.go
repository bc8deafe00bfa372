package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/markwash/meta/internal/domain/shared"
)

// Accessor is the attribute and call surface shared by model instances and
// proxies.
type Accessor interface {
	Get(name string) (any, error)
	Set(name string, value any) error
	Call(name string, args ...any) (any, error)
}

// Instance is a constructed model object. It owns its property storage and
// a map of plain attributes written by init functions.
type Instance struct {
	id      uuid.UUID
	typ     *Type
	storage storage
	attrs   map[string]any
}

var _ Accessor = (*Instance)(nil)

func newInstance(t *Type) *Instance {
	return &Instance{
		id:      uuid.New(),
		typ:     t,
		storage: make(storage),
		attrs:   make(map[string]any),
	}
}

// ID returns the instance identity
func (i *Instance) ID() uuid.UUID {
	return i.id
}

// Type returns the type the instance was constructed from
func (i *Instance) Type() *Type {
	return i.typ
}

// String implements fmt.Stringer
func (i *Instance) String() string {
	return fmt.Sprintf("%s(%s)", i.typ.name, i.id)
}

func (i *Instance) unknown(name string) error {
	return fmt.Errorf("%w: %s has no attribute '%s'", shared.ErrUnknownAttribute, i.typ.name, name)
}

// Get returns the value of a declared property, nil when it is unset, or the
// value of a plain attribute.
func (i *Instance) Get(name string) (any, error) {
	if p, ok := i.typ.Property(name); ok {
		return p.Get(i), nil
	}
	if v, ok := i.attrs[name]; ok {
		return v, nil
	}
	return nil, i.unknown(name)
}

// Value is Get without the error; unknown names read as nil.
func (i *Instance) Value(name string) any {
	v, _ := i.Get(name)
	return v
}

// Set stores value in the named property. Names that are not declared
// properties become plain attributes. It never fails for a model instance.
func (i *Instance) Set(name string, value any) error {
	if p, ok := i.typ.Property(name); ok {
		p.Set(i, value)
		return nil
	}
	i.attrs[name] = value
	return nil
}

// Call invokes the named method with i as self.
func (i *Instance) Call(name string, args ...any) (any, error) {
	m, ok := i.typ.Method(name)
	if !ok {
		return nil, i.unknown(name)
	}
	return m(i, args...)
}

// Attr returns a plain attribute.
func (i *Instance) Attr(name string) (any, bool) {
	v, ok := i.attrs[name]
	return v, ok
}

// SetAttr stores a plain attribute, bypassing property lookup.
func (i *Instance) SetAttr(name string, value any) {
	i.attrs[name] = value
}

// Fields returns a snapshot of every declared field, unset ones as nil.
func (i *Instance) Fields() map[string]any {
	names := i.typ.AllFields()
	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = i.Value(name)
	}
	return out
}

// Construct builds an instance of t from keyword arguments.
func Construct(t *Type, kwargs Kwargs) (*Instance, error) {
	return t.New(kwargs)
}

// Get reads field on inst.
func Get(inst *Instance, field string) (any, error) {
	return inst.Get(field)
}

// Set writes field on inst.
func Set(inst *Instance, field string, value any) error {
	return inst.Set(field, value)
}
