package proxy

import (
	"fmt"

	"github.com/markwash/meta/internal/domain/model"
	"github.com/markwash/meta/internal/domain/shared"
)

// Instance is a proxy attached to one wrapped model instance. The wrapped
// instance is shared, not owned: it may be changed directly or through any
// number of proxies.
type Instance struct {
	typ     *Type
	wrapped *model.Instance
	attrs   map[string]any
}

var _ model.Accessor = (*Instance)(nil)

// Type returns the proxy type
func (p *Instance) Type() *Type {
	return p.typ
}

// Wrapped returns the wrapped model instance
func (p *Instance) Wrapped() *model.Instance {
	return p.wrapped
}

// String implements fmt.Stringer
func (p *Instance) String() string {
	return fmt.Sprintf("%s(%s)", p.typ.name, p.wrapped)
}

func (p *Instance) unknown(name string) error {
	return fmt.Errorf("%w: %s has no attribute '%s'", shared.ErrUnknownAttribute, p.typ.name, name)
}

// Get reads a proxied property or a plain attribute of the proxy itself.
func (p *Instance) Get(name string) (any, error) {
	if pp, ok := p.typ.properties[name]; ok {
		return pp.Get(p)
	}
	if v, ok := p.attrs[name]; ok {
		return v, nil
	}
	return nil, p.unknown(name)
}

// Value is Get without the error; failures read as nil.
func (p *Instance) Value(name string) any {
	v, _ := p.Get(name)
	return v
}

// Set writes a proxied property. Other names become plain attributes of the
// proxy and do not reach the wrapped instance.
func (p *Instance) Set(name string, value any) error {
	if pp, ok := p.typ.properties[name]; ok {
		return pp.Set(p, value)
	}
	p.attrs[name] = value
	return nil
}

// Call invokes a proxy method, either declared on the proxy or forwarded to
// the wrapped instance.
func (p *Instance) Call(name string, args ...any) (any, error) {
	m, ok := p.typ.methods[name]
	if !ok {
		return nil, p.unknown(name)
	}
	return m(p, args...)
}

// Attr returns a plain attribute of the proxy.
func (p *Instance) Attr(name string) (any, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// SetAttr stores a plain attribute on the proxy.
func (p *Instance) SetAttr(name string, value any) {
	p.attrs[name] = value
}
