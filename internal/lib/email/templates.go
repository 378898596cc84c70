package email

import "embed"

// Template names an HTML file under templates/.
type Template string

const (
	// TemplatePostPublished announces a newly created blog post.
	TemplatePostPublished Template = "post_published"
)

//go:embed templates/*.html
var templateFS embed.FS
