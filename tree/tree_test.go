package tree

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

// buildDOM constructs the DOM tree for <html><body><ul><li>a</li><li>b</li></ul></body></html>.
func buildDOM() *proto.DOMNode {
	li := func(backend proto.DOMBackendNodeID) *proto.DOMNode {
		return &proto.DOMNode{NodeType: 1, NodeName: "LI", BackendNodeID: backend}
	}
	ul := &proto.DOMNode{
		NodeType: 1, NodeName: "UL", BackendNodeID: 4,
		Children: []*proto.DOMNode{li(5), li(6)},
	}
	body := &proto.DOMNode{NodeType: 1, NodeName: "BODY", BackendNodeID: 3, Children: []*proto.DOMNode{ul}}
	html := &proto.DOMNode{NodeType: 1, NodeName: "HTML", BackendNodeID: 2, Children: []*proto.DOMNode{body}}
	return html
}

func ax(id proto.AccessibilityAXNodeID, role, name string, backend proto.DOMBackendNodeID, children ...proto.AccessibilityAXNodeID) *proto.AccessibilityAXNode {
	return &proto.AccessibilityAXNode{
		NodeID:           id,
		Role:             &proto.AccessibilityAXValue{Value: gson.New(role)},
		Name:             &proto.AccessibilityAXValue{Value: gson.New(name)},
		BackendDOMNodeID: backend,
		ChildIds:         children,
	}
}

func TestBuild_ListXPaths(t *testing.T) {
	dom := buildDOM()
	nodes := []*proto.AccessibilityAXNode{
		ax("1", "list", "", 4, "2", "3"),
		ax("2", "listitem", "a", 5),
		ax("3", "listitem", "b", 6),
	}

	joined, idToXPath, err := Build(dom, nodes)
	require.NoError(t, err)
	require.NotNil(t, joined)

	require.Len(t, joined.Children, 2)
	assert.Equal(t, "/html/body/ul/li[1]", *joined.Children[0].XPath)
	assert.Equal(t, "/html/body/ul/li[2]", *joined.Children[1].XPath)
	require.NotNil(t, joined.Children[0].Tag)
	assert.Equal(t, "<li>", *joined.Children[0].Tag)
	require.NotNil(t, joined.Children[1].Tag)
	assert.Equal(t, "<li>", *joined.Children[1].Tag)

	assert.Equal(t, "/html/body/ul/li[1]", idToXPath[joined.Children[0].ID])
	assert.Equal(t, "/html/body/ul/li[2]", idToXPath[joined.Children[1].ID])
}

func TestBuild_RootSelection(t *testing.T) {
	dom := buildDOM()
	nodes := []*proto.AccessibilityAXNode{
		ax("1", "list", "", 4, "2"),
		ax("2", "listitem", "a", 5),
	}
	joined, _, err := Build(dom, nodes)
	require.NoError(t, err)
	assert.Equal(t, 1, joined.ID)
}
