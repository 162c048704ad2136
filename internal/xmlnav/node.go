// Package xmlnav provides a namespace-tolerant view over parsed XML invoice
// documents. FatturaPA files arrive with and without namespace prefixes
// depending on the issuing software, so element lookup matches on the bare
// tag name instead of the qualified one.
package xmlnav

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Node is one element of a parsed XML document. Text accumulates all
// character data directly inside the element, whitespace included, so
// callers reading values should trim it.
type Node struct {
	Name     xml.Name
	Text     string
	Children []*Node
}

// Parse reads a whole XML document into a Node tree. It is schema-agnostic:
// any well-formed document parses, regardless of whether it resembles an
// invoice. A non-well-formed document returns an error.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xml parse: document contains no elements")
	}

	return root, nil
}
