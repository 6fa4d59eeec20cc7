// Package report assembles the published benchmark report: a fixed
// sequence of titled, collapsible markdown sections.
package report

import (
	"fmt"
	"strings"
)

// Section is one collapsible block. Body and Images are mutually
// exclusive: a section carries either pre-rendered markdown or a list of
// image file names resolved against a base URL.
type Section struct {
	Title  string
	Body   string
	Images []string
}

// Render formats the sections in the exact order supplied. Image names are
// resolved to absolute URLs under baseURL.
func Render(sections []Section, baseURL string) string {
	var b strings.Builder
	for _, s := range sections {
		b.WriteString("<details>\n")
		fmt.Fprintf(&b, "<summary>%s</summary>\n\n", s.Title)
		if len(s.Images) > 0 {
			for _, img := range s.Images {
				fmt.Fprintf(&b, "![%s](%s)\n", img, ImageURL(baseURL, img))
			}
			b.WriteString("\n")
		} else {
			b.WriteString(strings.TrimRight(s.Body, "\n"))
			b.WriteString("\n\n")
		}
		b.WriteString("</details>\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ImageURL resolves an image file name to an absolute URL under base. An
// empty base leaves the name relative, for reports viewed next to their
// artifacts.
func ImageURL(base, name string) string {
	if base == "" {
		return name
	}
	return strings.TrimRight(base, "/") + "/" + name
}
