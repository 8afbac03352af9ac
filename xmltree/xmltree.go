// Package xmltree implements a small path-addressed XML DOM, built for
// synthesizing Jenkins config.xml documents where child order, attribute
// order and append-vs-reuse semantics must be controlled exactly.
//
// The standard library's encoding/xml Marshal cannot guarantee insertion
// order is preserved through arbitrary mutation, nor express "always append
// a new sibling with this tag" — both of which the generator needs for
// repeated builder/publisher blocks. A bespoke DOM with an explicit
// path-addressed API is cheaper and more legible than fighting Marshal.
package xmltree

import (
	"sort"
	"strings"
)

// Node is one element of the tree: a tag, an attribute map, optional text
// and an ordered list of children. Text is nil until explicitly set, which
// distinguishes "no text content" (self-closing-eligible) from "empty text"
// (an explicit open/close pair).
type Node struct {
	Tag      string
	Attrs    map[string]string
	Text     *string
	Children []*Node
}

// New creates a detached root node with the given tag.
func New(tag string) *Node {
	return &Node{Tag: tag, Attrs: map[string]string{}}
}

// Child returns the first existing child with the given tag, creating and
// appending one if none exists. Use this for "at most one" elements.
func (n *Node) Child(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return n.Append(tag)
}

// Append always creates and appends a new child with the given tag,
// regardless of whether one already exists. Use this for repeated sibling
// elements (builders, publishers, SCM entries, ...).
func (n *Node) Append(tag string) *Node {
	child := New(tag)
	n.Children = append(n.Children, child)
	return child
}

// SetText sets the node's text content, replacing any previous value.
func (n *Node) SetText(text string) *Node {
	n.Text = &text
	return n
}

// SetAttr sets a single attribute.
func (n *Node) SetAttr(name, value string) *Node {
	n.Attrs[name] = value
	return n
}

// Navigate walks a "/"-separated path from n, creating intermediate nodes
// on demand. A segment ending in "+" always appends a new sibling with
// that tag (stripped of the "+"); any other segment reuses an existing
// child with that tag if present, or creates one.
func (n *Node) Navigate(path string) *Node {
	cur := n
	for _, segment := range splitPath(path) {
		if segment == "" {
			continue
		}
		if strings.HasSuffix(segment, "+") {
			cur = cur.Append(strings.TrimSuffix(segment, "+"))
		} else {
			cur = cur.Child(segment)
		}
	}
	return cur
}

// Set navigates to path (creating intermediate nodes) and sets its text.
func (n *Node) Set(path, value string) *Node {
	return n.Navigate(path).SetText(value)
}

// SetPathAttr navigates to the node addressed by the part of pathAttr
// before the last "@", and sets the attribute named after it. For example
// SetPathAttr("scm@class", "hudson.plugins.git.GitSCM") sets the "class"
// attribute on the "scm" child.
func (n *Node) SetPathAttr(pathAttr, value string) *Node {
	path, attr := splitAttr(pathAttr)
	node := n.Navigate(path)
	node.SetAttr(attr, value)
	return node
}

// GetOrCreate returns the node at path without altering its text or
// attributes, an alias for Navigate kept for call-site clarity.
func (n *Node) GetOrCreate(path string) *Node {
	return n.Navigate(path)
}

func splitPath(path string) []string {
	return strings.Split(path, "/")
}

func splitAttr(pathAttr string) (path, attr string) {
	idx := strings.LastIndex(pathAttr, "@")
	if idx < 0 {
		return pathAttr, ""
	}
	return pathAttr[:idx], pathAttr[idx+1:]
}

// Remove deletes the first child matching tag, if any.
func (n *Node) Remove(tag string) {
	for i, c := range n.Children {
		if c.Tag == tag {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// MoveToEnd relocates the first child matching tag to the end of the
// children list, used for the Mailer-publisher-last ordering rule.
func (n *Node) MoveToEnd(tag string) {
	for i, c := range n.Children {
		if c.Tag == tag {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			n.Children = append(n.Children, c)
			return
		}
	}
}

// Render pretty-prints the tree rooted at n: two-space indent, attributes
// sorted by name, self-closing tags iff the node has neither children nor
// text, and XML-escaped attribute/text content.
func (n *Node) Render() string {
	var b strings.Builder
	n.render(&b, 0)
	return b.String()
}

const indentUnit = "  "

func (n *Node) render(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("<" + n.Tag)

	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(" " + name + `="` + escape(n.Attrs[name]) + `"`)
	}

	if len(n.Children) == 0 && n.Text == nil {
		b.WriteString("/>")
		return
	}

	b.WriteString(">")

	for _, c := range n.Children {
		b.WriteString("\n")
		c.render(b, depth+1)
	}

	if n.Text != nil {
		b.WriteString(escapeText(*n.Text))
	}

	if n.Text == nil {
		b.WriteString("\n" + strings.Repeat(indentUnit, depth))
	}
	b.WriteString("</" + n.Tag + ">")
}

// escape applies the minimal XML entity substitution used for attribute
// values: &, <, > only (matching xml.sax.saxutils.escape's defaults).
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// escapeText applies the same substitution as escape, plus a carriage
// return escape so CRLF-normalized build commands survive serialization.
func escapeText(s string) string {
	s = escape(s)
	s = strings.ReplaceAll(s, "\r", "&#xd;")
	return s
}
