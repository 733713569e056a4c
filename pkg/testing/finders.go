package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

// Finder locates elements in the host tree.
type Finder interface {
	// Match reports whether e is a match.
	Match(e *memhost.Element) bool
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	elements []*memhost.Element
	finder   Finder
}

// First returns the first match in document order, or nil.
func (r FinderResult) First() *memhost.Element {
	if len(r.elements) == 0 {
		return nil
	}
	return r.elements[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memhost.Element {
	if index < 0 || index >= len(r.elements) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.elements), r.finder.Description()))
	}
	return r.elements[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*memhost.Element {
	return r.elements
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.elements)
}

// Exists reports whether there is at least one match.
func (r FinderResult) Exists() bool {
	return len(r.elements) > 0
}

type funcFinder struct {
	match func(*memhost.Element) bool
	desc  string
}

func (f funcFinder) Match(e *memhost.Element) bool { return f.match(e) }
func (f funcFinder) Description() string          { return f.desc }

// ByTag matches elements with the given tag.
func ByTag(tag string) Finder {
	return funcFinder{
		match: func(e *memhost.Element) bool { return e.Kind() == memhost.ElementNode && e.Tag() == tag },
		desc:  fmt.Sprintf("tag %q", tag),
	}
}

// ByID matches elements whose "id" property is id.
func ByID(id string) Finder {
	return ByProp("id", id)
}

// ByProp matches elements holding the same value under name.
func ByProp(name string, value any) Finder {
	return funcFinder{
		match: func(e *memhost.Element) bool {
			v, ok := e.Prop(name)
			return ok && host.SameValue(v, value)
		},
		desc: fmt.Sprintf("%s=%v", name, value),
	}
}

// ByText matches elements whose text content equals text.
func ByText(text string) Finder {
	return funcFinder{
		match: func(e *memhost.Element) bool {
			return e.Kind() == memhost.ElementNode && e.TextContent() == text
		},
		desc: fmt.Sprintf("text %q", text),
	}
}

// ByTextContaining matches elements whose own text children contain substr.
func ByTextContaining(substr string) Finder {
	return funcFinder{
		match: func(e *memhost.Element) bool {
			for _, c := range e.Children() {
				if c.Kind() == memhost.TextNode && strings.Contains(c.Text(), substr) {
					return true
				}
			}
			return false
		},
		desc: fmt.Sprintf("text containing %q", substr),
	}
}
