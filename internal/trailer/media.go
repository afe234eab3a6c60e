package trailer

import "strings"

// mediaVideoPath is the path under the media base that serves rendered videos.
const mediaVideoPath = "/media/video/"

// MediaURL resolves a media reference into a playable URL of the form
// <base>/media/video/<blob>. The blob is opaque and is not escaped.
// Returns an empty string when blob is empty.
func MediaURL(base, blob string) string {
	if blob == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + mediaVideoPath + blob
}
