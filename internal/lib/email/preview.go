package email

// PreviewData holds sample values for rendering each template locally.
var PreviewData = map[Template]map[string]string{
	TemplatePostPublished: {
		"PostID":    "42",
		"PostTitle": "Understanding Go generics",
	},
}
