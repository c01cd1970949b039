package views

import (
	"path"
	"strconv"
	"strings"
)

// ThumbWidths are the widths the thumbnail handler will produce.
var ThumbWidths = []int{320, 640, 960}

// DefaultThumbWidth is used for card images.
const DefaultThumbWidth = 640

// ThumbURL returns the thumbnail URL for a local JPEG or PNG image, or src
// unchanged for anything else (remote URLs, SVG, GIF).
func ThumbURL(src string, width int) string {
	if !strings.HasPrefix(src, "/") || strings.HasPrefix(src, "//") {
		return src
	}
	switch strings.ToLower(path.Ext(src)) {
	case ".jpg", ".jpeg", ".png":
		return "/thumbs/" + strconv.Itoa(width) + src
	}
	return src
}
