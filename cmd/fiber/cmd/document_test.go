package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/core"
)

func TestParseDocument(t *testing.T) {
	doc := []byte(`
type: ul
props:
  id: list
  tabIndex: 2
children:
  - type: li
    children: [one]
  - two
  - 3
  - null
  - false
`)

	got, err := ParseDocument(doc)
	require.NoError(t, err)

	want := core.CreateElement("ul", core.Props{"id": "list", "tabIndex": 2},
		core.CreateElement("li", nil, "one"),
		"two",
		3,
		nil,
		false,
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDocument mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_Anchors(t *testing.T) {
	doc := []byte(`
type: div
children:
  - &item {type: span, children: [x]}
  - *item
`)

	got, err := ParseDocument(doc)
	require.NoError(t, err)
	children := got.Children()
	require.Len(t, children, 2)
	assert.Equal(t, core.HostType("span"), children[1].Type)
}

func TestParseDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"scalar root", "hello", "line 1: the root must be an element mapping"},
		{"missing type", "props: {id: x}", "line 1: element without a type"},
		{"reserved type", "type: TEXT_ELEMENT", "line 1: TEXT_ELEMENT is reserved, write text as a scalar child"},
		{"children prop", "type: p\nprops: {children: x}", `line 1: prop "children" cannot be set from a document`},
		{"listener prop", "type: p\nprops: {onClick: x}", `line 1: prop "onClick" cannot be set from a document`},
		{"sequence child", "type: p\nchildren:\n  - [a, b]", "line 3: a child must be an element or a scalar"},
		{"nested error", "type: p\nchildren:\n  - {props: {}}", "line 3: element without a type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.doc))
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseDocument_Empty(t *testing.T) {
	_, err := ParseDocument(nil)
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = ParseDocument([]byte("type: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse document")
}
