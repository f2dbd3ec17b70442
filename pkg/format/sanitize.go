package format

import "github.com/microcosm-cc/bluemonday"

// reviewPolicy allows the rich-text subset review bodies may carry.
var reviewPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "span", "strong", "em", "u",
		"ol", "ul", "li", "br",
	)
	return p
}()

// SanitizeHTML strips anything outside the allowed rich-text subset from a
// review body before it reaches a browser.
func SanitizeHTML(html string) string {
	return reviewPolicy.Sanitize(html)
}
