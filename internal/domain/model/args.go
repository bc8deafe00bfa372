package model

import "sort"

// Kwargs holds keyword construction arguments by field name.
type Kwargs map[string]any

// Names returns the keyword names in sorted order.
func (k Kwargs) Names() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pop removes name and returns its value.
func (k Kwargs) pop(name string) (any, bool) {
	v, ok := k[name]
	if ok {
		delete(k, name)
	}
	return v, ok
}

// Args carries the positional and keyword arguments of a construction call.
type Args struct {
	Positional []any
	Keyword    Kwargs
}

// Clone returns a copy of a that shares no slices or maps with it.
func (a Args) Clone() Args {
	out := Args{Keyword: make(Kwargs, len(a.Keyword))}
	if len(a.Positional) > 0 {
		out.Positional = append([]any(nil), a.Positional...)
	}
	for k, v := range a.Keyword {
		out.Keyword[k] = v
	}
	return out
}

// Empty reports whether no arguments remain.
func (a Args) Empty() bool {
	return len(a.Positional) == 0 && len(a.Keyword) == 0
}

// Bind matches a against an init function's parameter list the way a call
// would: positional values fill params in order, keywords fill the rest by
// name, and params given neither way are nil. Surplus positional values,
// unknown keywords, or a keyword repeating a positional param yield an
// *ArgumentError.
func (a Args) Bind(params ...string) ([]any, error) {
	if len(a.Positional) > len(params) {
		return nil, &ArgumentError{Positional: len(a.Positional) - len(params)}
	}
	values := make([]any, len(params))
	copy(values, a.Positional)

	rest := a.Clone().Keyword
	for i, name := range params {
		v, ok := rest.pop(name)
		if !ok {
			continue
		}
		if i < len(a.Positional) {
			return nil, &ArgumentError{Duplicate: name}
		}
		values[i] = v
	}
	if len(rest) > 0 {
		return nil, &ArgumentError{Keywords: rest.Names()}
	}
	return values, nil
}
