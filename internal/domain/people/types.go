package people

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/markwash/meta/internal/domain/model"
	"github.com/markwash/meta/internal/domain/proxy"
)

// ErrNotTitleCase is returned when a proxied name is not in title case.
var ErrNotTitleCase = errors.New("name must be title case")

// PersonType declares a named person.
var PersonType = model.NewType("Person").
	Field("name").
	Method("greet", func(self *model.Instance, _ ...any) (any, error) {
		return fmt.Sprintf("My name is %v.", self.Value("name")), nil
	}).
	Method("__repr__", func(self *model.Instance, _ ...any) (any, error) {
		return fmt.Sprintf("Person(name=%v)", self.Value("name")), nil
	}).
	MustBuild()

// StudentType extends PersonType with an id and a school.
var StudentType = model.NewType("Student").
	Extends(PersonType).
	Field("id", "school").
	Method("describe", func(self *model.Instance, _ ...any) (any, error) {
		greeting, err := self.Call("greet")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%v I am student %v at %v.", greeting, self.Value("id"), self.Value("school")), nil
	}).
	MustBuild()

// PersonProxyType mirrors PersonType and rejects names that are not in
// title case. Rejected names never reach the wrapped person.
var PersonProxyType = proxy.NewType("PersonProxy", PersonType).
	Property("name", proxy.NewPropertyProxy("").OnSet(setTitleName)).
	MustBuild()

// IsTitleCase reports whether s is title cased: it has at least one cased
// letter, upper and title case letters only start a word, and lower case
// letters only continue one. Any uncased rune, such as a space or an
// apostrophe, ends a word, so "O'Brien" is title case and "McDonald" is not.
func IsTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			cased, prevCased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			cased, prevCased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

func setTitleName(p *proxy.Instance, value any) error {
	s, ok := value.(string)
	if !ok || !IsTitleCase(s) {
		return fmt.Errorf("%w: %v", ErrNotTitleCase, value)
	}
	return p.Wrapped().Set("name", s)
}
