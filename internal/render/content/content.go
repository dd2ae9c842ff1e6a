// Package content turns idea markup into plain, wrapped terminal text.
package content

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type Options struct {
	// Styled applies heading and quote colours.
	Styled bool
}

var DefaultOptions = Options{Styled: true}

// StripHTML returns the text content of raw markup with tags removed and
// entities decoded. Script and style bodies are dropped.
func StripHTML(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	body := parseFragment(raw)
	if body == nil {
		return strings.TrimSpace(html.UnescapeString(raw))
	}
	var b strings.Builder
	collectText(&b, body)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Lines renders markup as wrapped lines of at most width columns.
func Lines(raw string, width int) []string {
	return LinesWithOptions(raw, width, DefaultOptions)
}

func LinesWithOptions(raw string, width int, opts Options) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	body := parseFragment(raw)
	if body == nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	r := renderer{width: max(1, width), opts: opts}
	return trimBlankLines(r.renderNodes(elementChildren(body)))
}

func parseFragment(raw string) *nethtml.Node {
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return nil
	}
	return findBodyNode(doc)
}

type renderer struct {
	width int
	opts  Options
}

func (r renderer) renderNodes(nodes []*nethtml.Node) []string {
	lines := make([]string, 0, len(nodes)*2)
	inline := make([]string, 0, 4)
	appendBlock := func(block []string) {
		if len(block) == 0 {
			return
		}
		if len(lines) > 0 && lines[len(lines)-1] != "" {
			lines = append(lines, "")
		}
		lines = append(lines, block...)
	}
	flush := func() {
		text := normalizeInlineText(strings.Join(inline, " "))
		inline = inline[:0]
		if text != "" {
			appendBlock(wrapText(text, r.width))
		}
	}

	for _, node := range nodes {
		switch node.Type {
		case nethtml.TextNode:
			inline = append(inline, node.Data)
		case nethtml.ElementNode:
			if isBlockElement(node.Data) {
				flush()
				appendBlock(r.renderBlock(node))
				continue
			}
			inline = append(inline, r.renderInline(node))
		}
	}
	flush()
	return trimBlankLines(lines)
}

func (r renderer) renderBlock(node *nethtml.Node) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript", "img":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		text := normalizeInlineText(r.renderInlineChildren(node))
		return r.style(wrapText(text, r.width), headingStyle)
	case "blockquote":
		inner := r.renderNodes(elementChildren(node))
		inner = wrapLines(inner, r.width-2)
		out := make([]string, 0, len(inner))
		for _, line := range inner {
			if strings.TrimSpace(line) == "" {
				out = append(out, "")
				continue
			}
			out = append(out, r.quotePrefix()+r.styleOne(line, quoteStyle))
		}
		return out
	case "ul", "ol":
		return r.renderList(node, tag == "ol")
	case "pre":
		text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
		out := make([]string, 0, 4)
		for _, line := range strings.Split(text, "\n") {
			out = append(out, strings.TrimRight(line, " \t"))
		}
		return trimBlankLines(out)
	default:
		if hasBlockChild(node) {
			return r.renderNodes(elementChildren(node))
		}
		return wrapText(normalizeInlineText(r.renderInlineChildren(node)), r.width)
	}
}

func (r renderer) renderList(node *nethtml.Node, ordered bool) []string {
	out := make([]string, 0, 4)
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = strconv.Itoa(n) + ". "
		}
		text := normalizeInlineText(r.renderInlineChildren(child))
		indent := strings.Repeat(" ", utf8.RuneCountInString(marker))
		for i, line := range wrapText(text, max(1, r.width-len(indent))) {
			if i == 0 {
				out = append(out, marker+line)
				continue
			}
			out = append(out, indent+line)
		}
	}
	return out
}

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, r.renderInline(child))
	}
	return strings.Join(parts, " ")
}

func (r renderer) renderInline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript", "img":
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(r.renderInlineChildren(node))
			href := nodeAttr(node, "href")
			switch {
			case href == "":
				return text
			case text == "" || strings.EqualFold(text, href):
				return href
			default:
				return text + " (" + href + ")"
			}
		default:
			return r.renderInlineChildren(node)
		}
	default:
		return ""
	}
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "p", "div", "section", "article", "header", "footer", "aside",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "pre", "figure", "figcaption", "hr",
		"script", "style", "noscript", "table":
		return true
	}
	return false
}

func hasBlockChild(node *nethtml.Node) bool {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && isBlockElement(child.Data) {
			return true
		}
	}
	return false
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	replacer := strings.NewReplacer(
		" .", ".",
		" ,", ",",
		" ;", ";",
		" :", ":",
		" !", "!",
		" ?", "?",
		" )", ")",
		"( ", "(",
	)
	return replacer.Replace(strings.Join(out, "\n"))
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

func wrapLines(lines []string, width int) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if visibleLen(line) <= width || strings.TrimSpace(line) == "" {
			out = append(out, line)
			continue
		}
		out = append(out, wrapText(stripANSI(line), width)...)
	}
	return out
}

// Wrap word-wraps plain text to width columns.
func Wrap(text string, width int) []string {
	return wrapText(text, width)
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	out := make([]string, 0, 4)
	for _, p := range strings.Split(text, "\n") {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for utf8.RuneCountInString(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				runes := []rune(word)
				out = append(out, string(runes[:width]))
				word = string(runes[width:])
			}
			switch {
			case line == "":
				line = word
			case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	children := make([]*nethtml.Node, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}

func collectText(b *strings.Builder, node *nethtml.Node) {
	if node.Type == nethtml.ElementNode {
		switch strings.ToLower(node.Data) {
		case "script", "style", "noscript":
			return
		case "br", "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
			b.WriteByte(' ')
		}
	}
	if node.Type == nethtml.TextNode {
		b.WriteString(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(b, child)
	}
}
