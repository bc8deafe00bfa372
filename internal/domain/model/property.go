package model

// Property is a named slot declared on a model type.
//
// A Property holds no instance data. Values live in each instance's storage
// under the property's name, so one Property serves every instance of the
// types that declare it.
type Property struct {
	name string
}

// NewProperty creates a property. An empty name is bound to the declaring
// field's name when the type is built.
func NewProperty(name string) *Property {
	return &Property{name: name}
}

// Name returns the storage name of the property
func (p *Property) Name() string {
	return p.name
}

// bind assigns name once; a property that already has a name keeps it.
func (p *Property) bind(name string) {
	if p.name == "" {
		p.name = name
	}
}

// Get returns the value stored on inst, or nil if the property is unset.
func (p *Property) Get(inst *Instance) any {
	c, ok := inst.storage[p.name]
	if !ok || !c.set {
		return nil
	}
	return c.value
}

// Set stores value on inst. Any value is accepted, including nil.
func (p *Property) Set(inst *Instance, value any) {
	inst.storage.ensure(p.name).assign(value)
}

// IsSet reports whether a value was stored on inst.
func (p *Property) IsSet(inst *Instance) bool {
	c, ok := inst.storage[p.name]
	return ok && c.set
}

// Clear returns the property on inst to the unset state.
func (p *Property) Clear(inst *Instance) {
	if c, ok := inst.storage[p.name]; ok {
		c.reset()
	}
}
