package proxy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/markwash/meta/internal/domain/model"
	"github.com/markwash/meta/internal/domain/shared"
)

// Method is a proxy-level method. p is the proxy the call was made on.
type Method func(p *Instance, args ...any) (any, error)

// InitFunc is custom proxy construction logic. It runs after the wrapped
// instance has been attached.
type InitFunc func(p *Instance, args model.Args) error

// IsSpecial reports whether a method name follows the double underscore
// convention for members that are never forwarded.
func IsSpecial(name string) bool {
	return strings.HasPrefix(name, "__")
}

// Type is a built proxy type.
type Type struct {
	name       string
	wrapped    *model.Type
	properties map[string]*PropertyProxy
	methods    map[string]Method
	generated  map[string]bool
	init       InitFunc
}

// Name returns the proxy type name
func (t *Type) Name() string {
	return t.name
}

// String implements fmt.Stringer
func (t *Type) String() string {
	return t.name
}

// Wrapped returns the model type instances of this proxy wrap
func (t *Type) Wrapped() *model.Type {
	return t.wrapped
}

// Property returns the property proxy installed under name
func (t *Type) Property(name string) (*PropertyProxy, bool) {
	pp, ok := t.properties[name]
	return pp, ok
}

// Properties returns the proxied property names in sorted order
func (t *Type) Properties() []string {
	return sortedKeys(t.properties)
}

// Methods returns the proxy method names in sorted order
func (t *Type) Methods() []string {
	return sortedKeys(t.methods)
}

// Generated reports whether name was installed by Build rather than declared
// on the proxy.
func (t *Type) Generated(name string) bool {
	return t.generated[name]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New attaches a proxy to wrapped, which must be an instance of the wrapped
// type or of a type derived from it. Remaining arguments go to the init
// function; without one they are rejected.
func (t *Type) New(wrapped *model.Instance, args model.Args) (*Instance, error) {
	if wrapped == nil {
		return nil, fmt.Errorf("%w: %s requires a wrapped instance", shared.ErrInvalidInput, t.name)
	}
	if !wrapped.Type().IsA(t.wrapped) {
		return nil, fmt.Errorf("%w: %s wraps %s, got %s", shared.ErrInvalidInput, t.name, t.wrapped.Name(), wrapped.Type().Name())
	}

	p := &Instance{
		typ:     t,
		wrapped: wrapped,
		attrs:   make(map[string]any),
	}
	if t.init != nil {
		if err := t.init(p, args.Clone()); err != nil {
			return nil, err
		}
		return p, nil
	}
	if !args.Empty() {
		return nil, model.NewArgumentError(t.name, args)
	}
	return p, nil
}

// Construct attaches a proxy of type t to wrapped.
func Construct(t *Type, wrapped *model.Instance, args model.Args) (*Instance, error) {
	return t.New(wrapped, args)
}

// TypeBuilder collects the declarations of a proxy type.
type TypeBuilder struct {
	name       string
	wrapped    *model.Type
	properties map[string]*PropertyProxy
	methods    map[string]Method
	init       InitFunc
	errs       []error
}

// NewType starts the declaration of a proxy type around wrapped.
func NewType(name string, wrapped *model.Type) *TypeBuilder {
	b := &TypeBuilder{
		name:       name,
		wrapped:    wrapped,
		properties: make(map[string]*PropertyProxy),
		methods:    make(map[string]Method),
	}
	if name == "" {
		b.fail("proxy type name cannot be empty")
	}
	if wrapped == nil {
		b.fail("no wrapped type declared")
	}
	return b
}

func (b *TypeBuilder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf("%w: %s: %s", shared.ErrInvalidConfiguration, b.name, fmt.Sprintf(format, args...)))
}

func (b *TypeBuilder) declared(name string) bool {
	_, isProp := b.properties[name]
	_, isMethod := b.methods[name]
	return isProp || isMethod
}

// Property declares a property proxy that overrides the generated one.
func (b *TypeBuilder) Property(name string, pp *PropertyProxy) *TypeBuilder {
	switch {
	case name == "":
		b.fail("property name cannot be empty")
	case pp == nil:
		b.fail("property %s has nil proxy", name)
	case b.declared(name):
		b.fail("%s declared twice", name)
	default:
		b.properties[name] = pp
	}
	return b
}

// Method declares a proxy method that overrides the generated forwarder.
func (b *TypeBuilder) Method(name string, fn Method) *TypeBuilder {
	switch {
	case name == "":
		b.fail("method name cannot be empty")
	case fn == nil:
		b.fail("method %s is nil", name)
	case b.declared(name):
		b.fail("%s declared twice", name)
	default:
		b.methods[name] = fn
	}
	return b
}

// Init sets the custom construction logic of the proxy type.
func (b *TypeBuilder) Init(fn InitFunc) *TypeBuilder {
	if b.init != nil {
		b.fail("init declared twice")
	}
	b.init = fn
	return b
}

// Build names the declared property proxies and installs forwarders for
// every property and non-special method declared directly on the wrapped
// type that the proxy does not declare itself.
func (b *TypeBuilder) Build() (*Type, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	t := &Type{
		name:       b.name,
		wrapped:    b.wrapped,
		properties: make(map[string]*PropertyProxy, len(b.properties)),
		methods:    make(map[string]Method, len(b.methods)),
		generated:  make(map[string]bool),
		init:       b.init,
	}
	for name, pp := range b.properties {
		pp.bind(name)
		t.properties[name] = pp
	}
	for name, fn := range b.methods {
		t.methods[name] = fn
	}

	for _, name := range b.wrapped.OwnFields() {
		if b.declared(name) {
			continue
		}
		t.properties[name] = NewPropertyProxy(name)
		t.generated[name] = true
	}
	for _, name := range b.wrapped.OwnMethods() {
		if b.declared(name) || IsSpecial(name) {
			continue
		}
		t.methods[name] = NewCallableProxy(name).Call
		t.generated[name] = true
	}
	return t, nil
}

// MustBuild is like Build but panics on a declaration error.
func (b *TypeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
