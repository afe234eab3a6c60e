package trailer

import "testing"

func TestMediaURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		blob string
		want string
	}{
		{"plain base", "http://localhost:8000", "abc123", "http://localhost:8000/media/video/abc123"},
		{"trailing slash", "http://localhost:8000/", "abc123", "http://localhost:8000/media/video/abc123"},
		{"base with path", "https://cdn.example.com/trailerforge", "abc123", "https://cdn.example.com/trailerforge/media/video/abc123"},
		{"nested blob kept verbatim", "http://localhost:8000", "videos/veo_video_1.mp4", "http://localhost:8000/media/video/videos/veo_video_1.mp4"},
		{"empty blob", "http://localhost:8000", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MediaURL(tt.base, tt.blob); got != tt.want {
				t.Errorf("MediaURL(%q, %q) = %q, want %q", tt.base, tt.blob, got, tt.want)
			}
		})
	}
}
