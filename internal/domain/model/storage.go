package model

// cell is the storage record of one property; set is false until a value
// has been assigned.
type cell struct {
	value any
	set   bool
}

func (c *cell) assign(value any) {
	c.value = value
	c.set = true
}

func (c *cell) reset() {
	c.value = nil
	c.set = false
}

// storage maps property names to their cells for a single instance.
type storage map[string]*cell

// ensure returns the cell for key, creating an unset one if needed.
func (s storage) ensure(key string) *cell {
	c, ok := s[key]
	if !ok {
		c = &cell{}
		s[key] = c
	}
	return c
}
