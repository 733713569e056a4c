package core

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greeting(ctx *BuildContext, props Props) *Node {
	return CreateElement("p", nil, props["name"])
}

func TestCreateElement_Example(t *testing.T) {
	got := CreateElement("div", Props{"id": "app"}, "hi")

	want := &Node{
		Type: HostType("div"),
		Props: Props{
			"id": "app",
			"children": []*Node{{
				Type: HostType("TEXT_ELEMENT"),
				Props: Props{
					"nodeValue": "hi",
					"children":  []*Node{},
				},
			}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CreateElement mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateElement_Children(t *testing.T) {
	child := CreateElement("span", nil)
	n := CreateElement("div", nil, "text", 42, 1.5, child, nil, false, true)

	children := n.Children()
	require.Len(t, children, 7)
	assert.Equal(t, "text", children[0].Props["nodeValue"])
	assert.Equal(t, 42, children[1].Props["nodeValue"])
	assert.Equal(t, 1.5, children[2].Props["nodeValue"])
	assert.Same(t, child, children[3])
	assert.Nil(t, children[4])
	assert.Nil(t, children[5])
	assert.Nil(t, children[6])
	for _, c := range children[:3] {
		assert.Equal(t, HostType(TextElement), c.Type)
		assert.Empty(t, c.Children())
	}
}

type level int

func TestCreateElement_TextKinds(t *testing.T) {
	n := CreateElement("p", nil, level(3), uint8(7), float32(0.5), 1500*time.Millisecond)

	children := n.Children()
	require.Len(t, children, 4)
	assert.Equal(t, level(3), children[0].Props["nodeValue"])
	assert.Equal(t, uint8(7), children[1].Props["nodeValue"])
	assert.Equal(t, float32(0.5), children[2].Props["nodeValue"])
	assert.Equal(t, "1.5s", children[3].Props["nodeValue"], "a Stringer renders its String")
	for _, c := range children {
		assert.Equal(t, HostType(TextElement), c.Type)
	}
}

func TestCreateElement_CompositeChildIsInvalid(t *testing.T) {
	li := CreateElement("li", nil)
	tests := []struct {
		name  string
		child any
		want  string
	}{
		{"unspread children", Children(li), "[]interface {}"},
		{"node slice", []*Node{li}, "[]*core.Node"},
		{"map", map[string]int{"a": 1}, "map[string]int"},
		{"struct", struct{ X int }{1}, "struct { X int }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			children := CreateElement("ul", nil, tt.child).Children()
			require.Len(t, children, 1)
			assert.IsType(t, invalidType{}, children[0].Type)
			assert.Equal(t, tt.want, children[0].Type.Name())
			assert.Empty(t, children[0].Children())
		})
	}
}

func TestCreateElement_CopiesProps(t *testing.T) {
	props := Props{"id": "a"}
	n := CreateElement("div", props, "x")

	assert.NotContains(t, props, ChildrenProp)
	props["id"] = "b"
	assert.Equal(t, "a", n.Props["id"])
}

func TestCreateElement_Types(t *testing.T) {
	assert.Equal(t, HostType("ul"), CreateElement("ul", nil).Type)
	assert.Equal(t, HostType("ol"), CreateElement(HostType("ol"), nil).Type)

	comp := CreateElement(greeting, nil).Type
	require.IsType(t, ComponentType{}, comp)
	assert.Equal(t, "core.greeting", comp.Name())

	named := CreateElement(Component(greeting), nil).Type
	assert.True(t, sameType(comp, named))

	invalid := CreateElement(42, nil).Type
	assert.IsType(t, invalidType{}, invalid)
	assert.Equal(t, "int", invalid.Name())
	assert.Equal(t, "<nil>", CreateElement(nil, nil).Type.Name())
}

func TestChildren_Spread(t *testing.T) {
	items := []*Node{CreateTextNode("a"), CreateTextNode("b")}
	n := CreateElement("ul", nil, Children(items...)...)

	assert.Equal(t, items, n.Children())
}

func TestSameType(t *testing.T) {
	other := func(ctx *BuildContext, props Props) *Node { return nil }

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same tag", HostType("div"), HostType("div"), true},
		{"different tag", HostType("div"), HostType("span"), false},
		{"same component", ComponentType{greeting}, ComponentType{greeting}, true},
		{"different component", ComponentType{greeting}, ComponentType{other}, false},
		{"tag and component", HostType("div"), ComponentType{greeting}, false},
		{"invalid", invalidType{1}, invalidType{1}, false},
		{"root", rootType{}, rootType{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameType(tt.a, tt.b))
		})
	}
}
