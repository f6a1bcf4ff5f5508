// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package html implements page queries on golang.org/x/net/html.
package html

import (
	"bytes"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/absmach/weather-bridge/pkg/errors"
	"golang.org/x/net/html"
)

var (
	_ fetcher.Parser   = (*parser)(nil)
	_ fetcher.Document = (*document)(nil)
	_ fetcher.Element  = (*element)(nil)
)

type parser struct{}

// NewParser returns a lenient HTML parser.
func NewParser() fetcher.Parser {
	return parser{}
}

func (parser) Parse(page []byte) (fetcher.Document, error) {
	root, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, errors.Wrap(fetcher.ErrParsePage, err)
	}
	return &document{root: root}, nil
}

type document struct {
	root *html.Node
}

func (d *document) FindAll(tag string, attrs map[string]string) []fetcher.Element {
	var found []fetcher.Element
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && matches(n, attrs) {
			found = append(found, element{node: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return found
}

func matches(n *html.Node, attrs map[string]string) bool {
	for name, want := range attrs {
		got, ok := attr(n, name)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

type element struct {
	node *html.Node
}

func (e element) Attr(name string) (string, bool) {
	return attr(e.node, name)
}
