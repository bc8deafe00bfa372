package proxy

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/markwash/meta/internal/domain/model"
	"github.com/markwash/meta/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var personType = model.NewType("Person").
	Field("name").
	Method("greet", func(self *model.Instance, args ...any) (any, error) {
		return fmt.Sprintf("My name is %v.", self.Value("name")), nil
	}).
	Method("__repr__", func(self *model.Instance, args ...any) (any, error) {
		return "<Person>", nil
	}).
	MustBuild()

var errNotTitle = errors.New("name must be title case")

func isTitle(s string) bool {
	return s != "" && strings.ToUpper(s[:1]) == s[:1]
}

func newPerson(t *testing.T, kwargs model.Kwargs) *model.Instance {
	t.Helper()
	p, err := personType.New(kwargs)
	require.NoError(t, err)
	return p
}

func TestProxyForwarding(t *testing.T) {
	personProxy := NewType("PersonProxy", personType).MustBuild()

	t.Run("property get", func(t *testing.T) {
		p, err := personProxy.New(newPerson(t, model.Kwargs{"name": "Fred"}), model.Args{})
		require.NoError(t, err)
		v, err := p.Get("name")
		require.NoError(t, err)
		assert.Equal(t, "Fred", v)
	})

	t.Run("property set writes through", func(t *testing.T) {
		person := newPerson(t, nil)
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		require.NoError(t, p.Set("name", "Wilma"))
		assert.Equal(t, "Wilma", p.Value("name"))
		assert.Equal(t, "Wilma", person.Value("name"))
	})

	t.Run("method call", func(t *testing.T) {
		person := newPerson(t, model.Kwargs{"name": "Henry"})
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		got, err := p.Call("greet")
		require.NoError(t, err)
		direct, err := person.Call("greet")
		require.NoError(t, err)
		assert.Equal(t, "My name is Henry.", got)
		assert.Equal(t, direct, got)
	})

	t.Run("special methods are not forwarded", func(t *testing.T) {
		p, err := personProxy.New(newPerson(t, nil), model.Args{})
		require.NoError(t, err)
		_, err = p.Call("__repr__")
		assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
	})

	t.Run("direct changes are visible through the proxy", func(t *testing.T) {
		person := newPerson(t, nil)
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)
		require.NoError(t, person.Set("name", "seamus"))
		assert.Equal(t, "seamus", p.Value("name"))
	})

	assert.Equal(t, []string{"name"}, personProxy.Properties())
	assert.Equal(t, []string{"greet"}, personProxy.Methods())
	assert.True(t, personProxy.Generated("name"))
	assert.True(t, personProxy.Generated("greet"))
}

func TestProxyMethodOverride(t *testing.T) {
	personProxy := NewType("PersonProxy", personType).
		Method("greet", func(p *Instance, args ...any) (any, error) {
			inner, err := p.Wrapped().Call("greet")
			if err != nil {
				return nil, err
			}
			return fmt.Sprintf("Hello, World! %v", inner), nil
		}).
		MustBuild()

	p, err := personProxy.New(newPerson(t, model.Kwargs{"name": "Larry"}), model.Args{})
	require.NoError(t, err)

	got, err := p.Call("greet")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World! My name is Larry.", got)
	assert.False(t, personProxy.Generated("greet"))
}

func TestProxyPropertyOverride(t *testing.T) {
	personProxy := NewType("PersonProxy", personType).
		Property("name", NewPropertyProxy("").OnSet(func(p *Instance, value any) error {
			s, _ := value.(string)
			if !isTitle(s) {
				return errNotTitle
			}
			return p.Wrapped().Set("name", s)
		})).
		MustBuild()

	t.Run("setter rejects and nothing is written", func(t *testing.T) {
		person := newPerson(t, nil)
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		err = p.Set("name", "seamus")
		assert.Same(t, errNotTitle, err)
		assert.Nil(t, person.Value("name"))
	})

	t.Run("setter accepts", func(t *testing.T) {
		person := newPerson(t, nil)
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		require.NoError(t, p.Set("name", "Seamus"))
		assert.Equal(t, "Seamus", person.Value("name"))
	})

	t.Run("underlying setter unaffected", func(t *testing.T) {
		person := newPerson(t, nil)
		p, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		require.NoError(t, person.Set("name", "seamus"))
		assert.Equal(t, "seamus", p.Value("name"))
	})

	pp, ok := personProxy.Property("name")
	require.True(t, ok)
	assert.Equal(t, "name", pp.Name())
	assert.False(t, personProxy.Generated("name"))
}

// hookRecorder records custom getter and setter invocations.
type hookRecorder struct {
	mock.Mock
}

func (h *hookRecorder) get(p *Instance) (any, error) {
	args := h.Called(p)
	return args.Get(0), args.Error(1)
}

func (h *hookRecorder) set(p *Instance, value any) error {
	args := h.Called(p, value)
	return args.Error(0)
}

func TestCustomSetterReplacesForwardingWrite(t *testing.T) {
	hooks := &hookRecorder{}
	personProxy := NewType("PersonProxy", personType).
		Property("name", NewPropertyProxy("").OnSet(hooks.set)).
		MustBuild()

	person := newPerson(t, model.Kwargs{"name": "Original"})
	p, err := personProxy.New(person, model.Args{})
	require.NoError(t, err)

	hooks.On("set", p, "Changed").Return(nil).Once()
	require.NoError(t, p.Set("name", "Changed"))

	hooks.AssertExpectations(t)
	assert.Equal(t, "Original", person.Value("name"))
}

func TestForwardingSetterWritesTwice(t *testing.T) {
	hooks := &hookRecorder{}
	personProxy := NewType("PersonProxy", personType).
		Property("name", NewPropertyProxy("").OnSet(hooks.set).Forwarding()).
		MustBuild()

	person := newPerson(t, nil)
	p, err := personProxy.New(person, model.Args{})
	require.NoError(t, err)

	hooks.On("set", p, "Wilma").Return(nil).Once()
	require.NoError(t, p.Set("name", "Wilma"))
	hooks.AssertExpectations(t)
	assert.Equal(t, "Wilma", person.Value("name"))

	boom := errors.New("boom")
	hooks.On("set", p, "Betty").Return(boom).Once()
	assert.Same(t, boom, p.Set("name", "Betty"))
	assert.Equal(t, "Wilma", person.Value("name"))
}

func TestCustomGetter(t *testing.T) {
	hooks := &hookRecorder{}
	personProxy := NewType("PersonProxy", personType).
		Property("name", NewPropertyProxy("").OnGet(hooks.get)).
		MustBuild()

	person := newPerson(t, model.Kwargs{"name": "fred"})
	p, err := personProxy.New(person, model.Args{})
	require.NoError(t, err)

	hooks.On("get", p).Return("FRED", nil).Once()
	v, err := p.Get("name")
	require.NoError(t, err)
	assert.Equal(t, "FRED", v)
	hooks.AssertExpectations(t)

	require.NoError(t, p.Set("name", "barney"))
	assert.Equal(t, "barney", person.Value("name"))
}

func TestExplicitPropertyProxyName(t *testing.T) {
	personProxy := NewType("PersonProxy", personType).
		Property("alias", NewPropertyProxy("name")).
		MustBuild()

	person := newPerson(t, model.Kwargs{"name": "Fred"})
	p, err := personProxy.New(person, model.Args{})
	require.NoError(t, err)

	assert.Equal(t, "Fred", p.Value("alias"))
	assert.Equal(t, "Fred", p.Value("name"))
	require.NoError(t, p.Set("alias", "George"))
	assert.Equal(t, "George", person.Value("name"))
}

func TestProxyOnlyMirrorsOwnMembers(t *testing.T) {
	student := model.NewType("Student").Extends(personType).Field("id").MustBuild()
	studentProxy := NewType("StudentProxy", student).MustBuild()

	s, err := student.New(model.Kwargs{"id": "1", "name": "Sam"})
	require.NoError(t, err)
	p, err := studentProxy.New(s, model.Args{})
	require.NoError(t, err)

	assert.Equal(t, "1", p.Value("id"))
	_, err = p.Get("name")
	assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
	_, err = p.Call("greet")
	assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
}

func TestProxyConstruction(t *testing.T) {
	t.Run("init receives arguments", func(t *testing.T) {
		personProxy := NewType("PersonProxy", personType).
			Init(func(p *Instance, args model.Args) error {
				vals, err := args.Bind("greeting")
				if err != nil {
					return err
				}
				p.SetAttr("greeting", vals[0])
				return nil
			}).
			MustBuild()

		person := newPerson(t, nil)
		p, err := Construct(personProxy, person, model.Args{Positional: []any{"hi"}})
		require.NoError(t, err)
		assert.Same(t, person, p.Wrapped())
		assert.Equal(t, "hi", p.Value("greeting"))

		require.NoError(t, p.Set("mood", "cheerful"))
		v, ok := p.Attr("mood")
		assert.True(t, ok)
		assert.Equal(t, "cheerful", v)
		_, err = person.Get("mood")
		assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
	})

	t.Run("init error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		personProxy := NewType("PersonProxy", personType).
			Init(func(p *Instance, args model.Args) error { return boom }).
			MustBuild()
		p, err := personProxy.New(newPerson(t, nil), model.Args{})
		assert.Nil(t, p)
		assert.Same(t, boom, err)
	})

	t.Run("arguments without init are rejected", func(t *testing.T) {
		personProxy := NewType("PersonProxy", personType).MustBuild()
		_, err := personProxy.New(newPerson(t, nil), model.Args{Keyword: model.Kwargs{"x": 1}})
		assert.ErrorIs(t, err, shared.ErrUnexpectedArgument)
	})

	t.Run("nil wrapped instance", func(t *testing.T) {
		personProxy := NewType("PersonProxy", personType).MustBuild()
		_, err := personProxy.New(nil, model.Args{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("wrong wrapped type", func(t *testing.T) {
		other := model.NewType("Other").MustBuild()
		inst, err := other.New(nil)
		require.NoError(t, err)
		personProxy := NewType("PersonProxy", personType).MustBuild()
		_, err = personProxy.New(inst, model.Args{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("derived wrapped instance is accepted", func(t *testing.T) {
		student := model.NewType("Student").Extends(personType).MustBuild()
		s, err := student.New(model.Kwargs{"name": "Sam"})
		require.NoError(t, err)
		personProxy := NewType("PersonProxy", personType).MustBuild()
		p, err := personProxy.New(s, model.Args{})
		require.NoError(t, err)
		assert.Equal(t, "Sam", p.Value("name"))
	})

	t.Run("many proxies share one instance", func(t *testing.T) {
		personProxy := NewType("PersonProxy", personType).MustBuild()
		person := newPerson(t, nil)
		p1, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)
		p2, err := personProxy.New(person, model.Args{})
		require.NoError(t, err)

		require.NoError(t, p1.Set("name", "Ann"))
		assert.Equal(t, "Ann", p2.Value("name"))
	})
}

func TestProxyBuildErrors(t *testing.T) {
	noop := func(p *Instance, args ...any) (any, error) { return nil, nil }

	tests := []struct {
		name    string
		builder *TypeBuilder
	}{
		{"no wrapped type", NewType("P", nil)},
		{"empty name", NewType("", personType)},
		{"empty property name", NewType("P", personType).Property("", NewPropertyProxy(""))},
		{"nil property proxy", NewType("P", personType).Property("name", nil)},
		{"nil method", NewType("P", personType).Method("greet", nil)},
		{"duplicate member", NewType("P", personType).Property("x", NewPropertyProxy("")).Method("x", noop)},
		{"init twice", NewType("P", personType).Init(func(*Instance, model.Args) error { return nil }).Init(func(*Instance, model.Args) error { return nil })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := tt.builder.Build()
			assert.Nil(t, typ)
			assert.ErrorIs(t, err, shared.ErrInvalidConfiguration)
			assert.Panics(t, func() { tt.builder.MustBuild() })
		})
	}
}

func TestUnknownProxyAttribute(t *testing.T) {
	personProxy := NewType("PersonProxy", personType).MustBuild()
	p, err := personProxy.New(newPerson(t, nil), model.Args{})
	require.NoError(t, err)

	_, err = p.Get("missing")
	assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
	_, err = p.Call("missing")
	assert.ErrorIs(t, err, shared.ErrUnknownAttribute)
	assert.Nil(t, p.Value("missing"))
	assert.Equal(t, personType, personProxy.Wrapped())
	assert.Equal(t, "PersonProxy", personProxy.Name())
	assert.Same(t, personProxy, p.Type())
}
