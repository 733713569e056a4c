package host_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
)

func TestIsListener(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"onClick", true},
		{"onInput", true},
		{"onÉtat", true},
		{"on", false},
		{"onclick", false},
		{"one", false},
		{"online", false},
		{"click", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, host.IsListener(tt.name))
		})
	}
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "click", host.EventName("onClick"))
	assert.Equal(t, "mouseover", host.EventName("onMouseOver"))
}

func TestCreateNode(t *testing.T) {
	doc := memhost.NewDocument()

	text := host.CreateNode(doc, host.TextElement).(*memhost.Element)
	div := host.CreateNode(doc, "div").(*memhost.Element)

	assert.Equal(t, memhost.TextNode, text.Kind())
	assert.Equal(t, memhost.ElementNode, div.Kind())
	assert.Equal(t, "div", div.Tag())
}

func TestUpdateProps_Mount(t *testing.T) {
	doc := memhost.NewDocument()
	node := doc.CreateElement("button")
	doc.ResetMutations()
	click := func() {}

	n := host.UpdateProps(doc, node, map[string]any{
		"id":              "go",
		"onClick":         click,
		"title":           "Go",
		host.ChildrenProp: []int{1},
	}, nil)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"set button#2.id", "listen button#2.click", "set button#2.title"}, ops(doc))
	el := node.(*memhost.Element)
	_, hasChildren := el.Prop(host.ChildrenProp)
	assert.False(t, hasChildren, "children are never forwarded")
	_, hasListenerProp := el.Prop("onClick")
	assert.False(t, hasListenerProp, "listeners are bound, not set")
	assert.Equal(t, 1, el.ListenerCount("click"))
}

func TestUpdateProps_Diff(t *testing.T) {
	doc := memhost.NewDocument()
	node := doc.CreateElement("input")
	first, second := func() {}, func() {}
	prev := map[string]any{"value": "a", "title": "t", "onInput": first, "onBlur": first}
	host.UpdateProps(doc, node, prev, nil)
	doc.ResetMutations()

	n := host.UpdateProps(doc, node, map[string]any{
		"value":   "b",
		"onInput": second,
		"onBlur":  first,
	}, prev)

	assert.Equal(t, 3, n, "a rebound listener counts once")
	assert.Equal(t, []string{
		"unset input#2.title",
		"unlisten input#2.input",
		"listen input#2.input",
		"set input#2.value",
	}, ops(doc))
	el := node.(*memhost.Element)
	assert.Equal(t, 1, el.ListenerCount("input"))
	assert.Equal(t, 1, el.ListenerCount("blur"))
	v, _ := el.Prop("value")
	assert.Equal(t, "b", v)
}

func TestUpdateProps_Unchanged(t *testing.T) {
	doc := memhost.NewDocument()
	node := doc.CreateElement("p")
	style := map[string]string{"color": "red"}
	props := map[string]any{"class": "x", "style": style, "n": 3}
	host.UpdateProps(doc, node, props, nil)
	doc.ResetMutations()

	n := host.UpdateProps(doc, node, map[string]any{"class": "x", "style": style, "n": 3}, props)

	assert.Zero(t, n)
	assert.Empty(t, doc.Mutations())
}

func TestUpdateProps_Unmount(t *testing.T) {
	doc := memhost.NewDocument()
	node := doc.CreateElement("a")
	onClick := func() {}
	prev := map[string]any{"href": "/", "onClick": onClick}
	host.UpdateProps(doc, node, prev, nil)
	doc.ResetMutations()

	n := host.UpdateProps(doc, node, nil, prev)

	require.Equal(t, 2, n)
	assert.Equal(t, []string{"unset a#2.href", "unlisten a#2.click"}, ops(doc))
	assert.Zero(t, node.(*memhost.Element).ListenerCount("click"))
}

func ops(doc *memhost.Document) []string {
	var out []string
	for _, m := range doc.Mutations() {
		out = append(out, m.String())
	}
	return out
}
