// Package tree joins the Chromium accessibility tree and DOM tree into a
// single hierarchical view with stable numeric IDs and a per-node XPath,
// per spec §4.3. The join is driver-agnostic in shape but the concrete
// inputs are the go-rod proto types returned by
// driver.Page.AccessibilitySnapshot.
package tree

import (
	"fmt"

	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/br/models"
)

// BuildFromSnapshot adapts the `any`-typed pair returned by
// driver.Page.AccessibilitySnapshot — concretely a *proto.DOMNode and a
// []*proto.AccessibilityAXNode for both the rod driver and any future
// CDP-backed one — and joins them via Build.
func BuildFromSnapshot(dom any, ax any) (*models.TreeNode, map[int]string, error) {
	domRoot, ok := dom.(*proto.DOMNode)
	if !ok {
		return nil, nil, fmt.Errorf("tree: unexpected DOM snapshot type %T", dom)
	}
	axNodes, ok := ax.([]*proto.AccessibilityAXNode)
	if !ok {
		return nil, nil, fmt.Errorf("tree: unexpected accessibility snapshot type %T", ax)
	}
	return Build(domRoot, axNodes)
}

// Build walks the DOM document to compute a document-rooted XPath for
// every element, then walks the accessibility tree, attaching each AX
// node's backing DOM tag/xpath. It returns the joined tree plus the
// ID→XPath map that Session State stores for subsequent selector
// resolution (spec §4.3 steps 1-3).
func Build(domRoot *proto.DOMNode, axNodes []*proto.AccessibilityAXNode) (*models.TreeNode, map[int]string, error) {
	if domRoot == nil {
		return nil, nil, fmt.Errorf("tree: nil DOM document root")
	}

	domByBackendID := make(map[proto.DOMBackendNodeID]domInfo)
	rootXPath := ""
	if tag := domTagName(domRoot); tag != "" {
		rootXPath = "/" + tag
	}
	walkDOM(domRoot, rootXPath, domByBackendID)

	axByID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(axNodes))
	isChild := make(map[proto.AccessibilityAXNodeID]bool, len(axNodes))
	for _, n := range axNodes {
		axByID[n.NodeID] = n
		for _, c := range n.ChildIds {
			isChild[c] = true
		}
	}

	root := findRoot(axNodes, isChild)
	if root == nil {
		return nil, nil, fmt.Errorf("tree: empty accessibility tree")
	}

	idToXPath := make(map[int]string)
	joined := joinNode(root, axByID, domByBackendID, idToXPath)
	return joined, idToXPath, nil
}

// domInfo is the per-DOM-node data walkDOM records for later lookup by
// the accessibility node that shares its BackendDOMNodeID.
type domInfo struct {
	xpath string
	tag   string
}

// findRoot returns the AX node that is not a child of any other node
// (the accessibility tree's document root); if none qualifies (can
// happen on a malformed/partial tree) it falls back to the first node,
// per spec §4.3.
func findRoot(nodes []*proto.AccessibilityAXNode, isChild map[proto.AccessibilityAXNodeID]bool) *proto.AccessibilityAXNode {
	for _, n := range nodes {
		if !isChild[n.NodeID] {
			return n
		}
	}
	if len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// walkDOM records the document-rooted XPath for n (already computed by
// the caller as `xpath`) and recurses into children, computing each
// child's `tag` or `tag[k]` segment — k is the 1-based index among
// same-tag siblings when more than one such sibling exists, per §4.3.
func walkDOM(n *proto.DOMNode, xpath string, out map[proto.DOMBackendNodeID]domInfo) {
	out[n.BackendNodeID] = domInfo{xpath: xpath, tag: domTagName(n)}

	counts := make(map[string]int)
	for _, c := range n.Children {
		counts[domTagName(c)]++
	}

	seen := make(map[string]int)
	for _, c := range n.Children {
		tag := domTagName(c)
		if tag == "" {
			// Non-element children (text, comments) don't contribute an
			// XPath segment of their own; keep the parent's context.
			walkDOM(c, xpath, out)
			continue
		}
		seen[tag]++
		childXPath := xpath + "/" + tag
		if counts[tag] > 1 {
			childXPath = fmt.Sprintf("%s/%s[%d]", xpath, tag, seen[tag])
		}
		walkDOM(c, childXPath, out)
	}
}

func domTagName(n *proto.DOMNode) string {
	if n.NodeType != 1 { // ELEMENT_NODE
		return ""
	}
	tag := n.NodeName
	lower := make([]byte, len(tag))
	for i := 0; i < len(tag); i++ {
		c := tag[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	return string(lower)
}

func joinNode(
	n *proto.AccessibilityAXNode,
	byID map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode,
	domByBackendID map[proto.DOMBackendNodeID]domInfo,
	idToXPath map[int]string,
) *models.TreeNode {
	id := axNodeIDAsInt(n.NodeID)

	var name *string
	if n.Name != nil {
		s := axValueString(n.Name)
		name = &s
	}

	var tag, xpath *string
	if n.BackendDOMNodeID != 0 {
		if info, ok := domByBackendID[n.BackendDOMNodeID]; ok {
			x := info.xpath
			xpath = &x
			idToXPath[id] = x
			if info.tag != "" {
				t := "<" + info.tag + ">"
				tag = &t
			}
		}
	}

	role := ""
	if n.Role != nil {
		role = axValueString(n.Role)
	}

	out := &models.TreeNode{ID: id, Role: role, Name: name, Tag: tag, XPath: xpath}
	for _, cid := range n.ChildIds {
		if child, ok := byID[cid]; ok {
			out.Children = append(out.Children, joinNode(child, byID, domByBackendID, idToXPath))
		}
	}
	return out
}

func axValueString(v *proto.AccessibilityAXValue) string {
	if v == nil {
		return ""
	}
	return v.Value.Str()
}

// axNodeIDAsInt converts the AX node's string ID to an int; CDP's
// AXNodeId is a string, but spec's ID→XPath map and numeric selector
// tokens are non-negative integers, so non-numeric IDs hash to a stable
// positive int instead of being dropped.
func axNodeIDAsInt(id proto.AccessibilityAXNodeID) int {
	n := 0
	any := false
	for _, r := range string(id) {
		if r < '0' || r > '9' {
			any = false
			break
		}
		any = true
		n = n*10 + int(r-'0')
	}
	if any {
		return n
	}
	return stableHash(string(id))
}

func stableHash(s string) int {
	h := 2166136261
	for i := 0; i < len(s); i++ {
		h = (h ^ int(s[i])) * 16777619
	}
	if h < 0 {
		h = -h
	}
	return h
}
