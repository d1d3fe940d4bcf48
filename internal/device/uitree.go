// internal/device/uitree.go
package device

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// UINode is one element of the on-screen view hierarchy as reported by
// `uiautomator dump`.
type UINode struct {
	Class       string
	Text        string
	ResourceID  string
	ContentDesc string
	Clickable   bool
	Bounds      [4]int // x1, y1, x2, y2 in pixels.
	Children    []*UINode
}

// Center returns the pixel midpoint of the node's bounds.
func (n *UINode) Center() (int, int) {
	return (n.Bounds[0] + n.Bounds[2]) / 2, (n.Bounds[1] + n.Bounds[3]) / 2
}

var boundsRegex = regexp.MustCompile(`\[(-?\d+),(-?\d+)\]\[(-?\d+),(-?\d+)\]`)

// DumpUITree captures the current view hierarchy over the bridge and parses
// it. The dump lands on the device first because `uiautomator dump` cannot
// write to stdout on every OS level.
func DumpUITree(ctx context.Context, b Bridge) (*UINode, error) {
	const remote = "/sdcard/taskwizard-uidump.xml"
	if _, err := b.ExecuteShellCommand(ctx, "uiautomator dump "+remote); err != nil {
		return nil, fmt.Errorf("uiautomator dump failed: %w", err)
	}
	raw, err := b.ExecuteShellCommand(ctx, "cat "+remote)
	if err != nil {
		return nil, fmt.Errorf("failed to read ui dump: %w", err)
	}
	_, _ = b.ExecuteShellCommand(ctx, "rm "+remote)
	return ParseUITree(raw)
}

// ParseUITree decodes uiautomator dump XML into a node tree.
func ParseUITree(xml string) (*UINode, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("malformed ui hierarchy: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty ui hierarchy")
	}
	// The document root is <hierarchy>; its single child is the real root node.
	if first := root.SelectElement("node"); first != nil {
		return parseNode(first), nil
	}
	return parseNode(root), nil
}

func parseNode(el *etree.Element) *UINode {
	n := &UINode{
		Class:       el.SelectAttrValue("class", ""),
		Text:        el.SelectAttrValue("text", ""),
		ResourceID:  el.SelectAttrValue("resource-id", ""),
		ContentDesc: el.SelectAttrValue("content-desc", ""),
		Clickable:   el.SelectAttrValue("clickable", "false") == "true",
	}
	if m := boundsRegex.FindStringSubmatch(el.SelectAttrValue("bounds", "")); m != nil {
		for i := 0; i < 4; i++ {
			n.Bounds[i], _ = strconv.Atoi(m[i+1])
		}
	}
	for _, child := range el.SelectElements("node") {
		n.Children = append(n.Children, parseNode(child))
	}
	return n
}

// Outline renders the interactive subset of the tree as indented text for
// inclusion in a model prompt. Nodes with neither text nor description nor
// clickability are structural noise and are skipped, though their children
// are still visited.
func (n *UINode) Outline() string {
	var sb strings.Builder
	n.outline(&sb, 0)
	return sb.String()
}

func (n *UINode) outline(sb *strings.Builder, depth int) {
	if n.Text != "" || n.ContentDesc != "" || n.Clickable {
		cx, cy := n.Center()
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(shortClass(n.Class))
		if n.Text != "" {
			fmt.Fprintf(sb, " %q", n.Text)
		}
		if n.ContentDesc != "" && n.ContentDesc != n.Text {
			fmt.Fprintf(sb, " (%s)", n.ContentDesc)
		}
		if n.Clickable {
			fmt.Fprintf(sb, " clickable@(%d,%d)", cx, cy)
		}
		sb.WriteByte('\n')
		depth++
	}
	for _, c := range n.Children {
		c.outline(sb, depth)
	}
}

func shortClass(class string) string {
	if i := strings.LastIndexByte(class, '.'); i >= 0 {
		return class[i+1:]
	}
	return class
}
