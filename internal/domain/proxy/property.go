package proxy

// Getter replaces the forwarding read of a proxied property.
type Getter func(p *Instance) (any, error)

// Setter replaces the forwarding write of a proxied property.
type Setter func(p *Instance, value any) error

// PropertyProxy exposes a property of the wrapped instance on a proxy.
//
// Without hooks it reads and writes the wrapped instance's attribute of the
// same name. A setter takes over the write entirely and decides itself
// whether to touch the wrapped instance, unless Forwarding is set, in which
// case the forwarding write also runs after a successful setter.
type PropertyProxy struct {
	name    string
	getter  Getter
	setter  Setter
	forward bool
}

// NewPropertyProxy creates a property proxy. An empty name is bound to the
// declaring field's name when the proxy type is built.
func NewPropertyProxy(name string) *PropertyProxy {
	return &PropertyProxy{name: name}
}

// Name returns the attribute name forwarded to the wrapped instance
func (pp *PropertyProxy) Name() string {
	return pp.name
}

// OnGet registers a custom read.
func (pp *PropertyProxy) OnGet(fn Getter) *PropertyProxy {
	pp.getter = fn
	return pp
}

// OnSet registers a custom write.
func (pp *PropertyProxy) OnSet(fn Setter) *PropertyProxy {
	pp.setter = fn
	return pp
}

// Forwarding keeps the forwarding write after a custom setter succeeds.
func (pp *PropertyProxy) Forwarding() *PropertyProxy {
	pp.forward = true
	return pp
}

func (pp *PropertyProxy) bind(name string) {
	if pp.name == "" {
		pp.name = name
	}
}

// Get reads the property through p.
func (pp *PropertyProxy) Get(p *Instance) (any, error) {
	if pp.getter != nil {
		return pp.getter(p)
	}
	return p.wrapped.Get(pp.name)
}

// Set writes the property through p. Errors from a custom setter are
// returned as is and stop the write.
func (pp *PropertyProxy) Set(p *Instance, value any) error {
	if pp.setter != nil {
		if err := pp.setter(p, value); err != nil {
			return err
		}
		if !pp.forward {
			return nil
		}
	}
	return p.wrapped.Set(pp.name, value)
}

// CallableProxy forwards a method call to the wrapped instance.
type CallableProxy struct {
	name string
}

// NewCallableProxy creates a forwarder for the named method
func NewCallableProxy(name string) *CallableProxy {
	return &CallableProxy{name: name}
}

// Name returns the forwarded method name
func (c *CallableProxy) Name() string {
	return c.name
}

// Call invokes the method on p's wrapped instance and returns its result
// unchanged.
func (c *CallableProxy) Call(p *Instance, args ...any) (any, error) {
	return p.wrapped.Call(c.name, args...)
}
