package dot

import (
	"fmt"
	"regexp"
)

// Linker resolves canonical dotted names to documentation URLs.
// Implementations return "" for names they cannot resolve.
type Linker interface {
	URLFor(name string) string
}

var (
	// hrefAttr matches an href attribute value that is still a placeholder.
	hrefAttr = regexp.MustCompile(`^<([\w.]+)>$`)

	// hrefBody matches href placeholders embedded in the raw body fragment,
	// capturing the dotted name and an optional trailing comma.
	hrefBody = regexp.MustCompile(`href\s*=\s*['"]?<([\w.]+)>['"]?\s*(,?)`)
)

// Link replaces every href placeholder of the form <dotted.name> with the URL
// produced by linker: in the node defaults, each node's attributes, the edge
// defaults, each edge's attributes, and the body fragment. Placeholders the
// linker cannot resolve are removed (the href attribute is deleted; in the
// body the matched text is dropped along with a trailing comma).
//
// Placeholders are fully consumed on the first pass, so calling Link again on
// the result is a no-op.
func (g *Graph) Link(linker Linker) {
	linkAttrs(g.NodeDefaults, linker)
	for _, n := range g.nodes {
		linkAttrs(n.Attrs, linker)
	}

	linkAttrs(g.EdgeDefaults, linker)
	for _, e := range g.edges {
		linkAttrs(e.Attrs, linker)
	}

	g.Body = hrefBody.ReplaceAllStringFunc(g.Body, func(match string) string {
		sub := hrefBody.FindStringSubmatch(match)
		if url := linker.URLFor(sub[1]); url != "" {
			return fmt.Sprintf("href=%q%s", url, sub[2])
		}
		return ""
	})
}

// linkAttrs resolves a placeholder href attribute in place, deleting it when
// the linker has no URL for the name.
func linkAttrs(attrs Attrs, linker Linker) {
	href, ok := attrs["href"]
	if !ok {
		return
	}
	m := hrefAttr.FindStringSubmatch(href)
	if m == nil {
		return
	}
	if url := linker.URLFor(m[1]); url != "" {
		attrs["href"] = url
	} else {
		delete(attrs, "href")
	}
}
