// Package fragments names the viewer templates
package fragments

// Template names as registered from the embedded templates directory
const (
	// Index is the full page
	Index = "index.html"

	// Viewer is the swappable main panel, also embedded by Index
	Viewer = "viewer.html"

	// Tooltip wraps rendered criterion help
	Tooltip = "tooltip.html"
)
