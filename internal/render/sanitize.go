package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockedTags = map[string]struct{}{
	"animate":          {},
	"animatemotion":    {},
	"animatetransform": {},
	"set":              {},
	"base":             {},
	"embed":            {},
	"form":             {},
	"frame":            {},
	"frameset":         {},
	"iframe":           {},
	"input":            {},
	"link":             {},
	"meta":             {},
	"noscript":         {},
	"object":           {},
	"script":           {},
	"style":            {},
	"textarea":         {},
}

// Sanitize strips active content from user supplied markup: blocked elements,
// event handler and style attributes, and script URLs. Harmless markup is
// rendered back unchanged.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return html.EscapeString(raw)
	}

	var b strings.Builder
	for _, n := range nodes {
		sanitized := sanitizeNode(n)
		if sanitized == nil {
			continue
		}
		if err := html.Render(&b, sanitized); err != nil {
			return html.EscapeString(raw)
		}
	}
	return b.String()
}

func sanitizeNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	switch n.Type {
	case html.TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Data}
	case html.CommentNode, html.DoctypeNode:
		return nil
	case html.ElementNode:
		tag := strings.ToLower(strings.TrimSpace(n.Data))
		if _, blocked := blockedTags[tag]; blocked {
			return nil
		}
		clone := &html.Node{Type: html.ElementNode, Data: n.Data, DataAtom: n.DataAtom, Namespace: n.Namespace}
		for _, a := range n.Attr {
			k := strings.ToLower(strings.TrimSpace(a.Key))
			if k == "" || strings.HasPrefix(k, "on") || k == "style" || k == "srcdoc" {
				continue
			}
			if isURLAttr(k) && !isSafeURL(a.Val, tag, k) {
				continue
			}
			clone.Attr = append(clone.Attr, a)
		}
		appendSanitizedChildren(clone, n)
		return clone
	default:
		clone := &html.Node{Type: n.Type, Data: n.Data, Namespace: n.Namespace}
		appendSanitizedChildren(clone, n)
		return clone
	}
}

func appendSanitizedChildren(dst, src *html.Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if child := sanitizeNode(c); child != nil {
			dst.AppendChild(child)
		}
	}
}

func isURLAttr(k string) bool {
	switch k {
	case "href", "src", "poster", "cite", "action", "formaction", "data", "xlink:href":
		return true
	default:
		return false
	}
}

func isSafeURL(v, tag, attr string) bool {
	u := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= 0x20 {
			return -1
		}
		return r
	}, v))
	if u == "" {
		return true
	}
	if strings.HasPrefix(u, "javascript:") || strings.HasPrefix(u, "vbscript:") {
		return false
	}
	if strings.HasPrefix(u, "data:") {
		if tag == "img" && attr == "src" {
			return strings.HasPrefix(u, "data:image/")
		}
		return false
	}
	return true
}
