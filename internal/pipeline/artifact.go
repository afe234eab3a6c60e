package pipeline

import (
	"bytes"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mediaTypePDF     = "application/pdf"
	mediaTypeUnknown = "application/octet-stream"
)

// Artifact is the file selected by the user for trailer generation.
type Artifact struct {
	// Name is the display name, usually the original filename.
	Name string
	// MediaType is the declared media type.
	MediaType string
	// Content is the raw file bytes.
	Content []byte
}

// NewArtifact creates an Artifact. When the declared media type is missing
// or generic, the type is detected from the content instead.
func NewArtifact(name, mediaType string, content []byte) Artifact {
	mediaType = normalizeMediaType(mediaType)
	if (mediaType == "" || mediaType == mediaTypeUnknown) && len(content) > 0 {
		mediaType = normalizeMediaType(mimetype.Detect(content).String())
	}
	return Artifact{Name: name, MediaType: mediaType, Content: content}
}

// LoadArtifact reads a file from disk into an Artifact, deriving the media
// type from the file extension.
func LoadArtifact(path string) (Artifact, error) {
	content, err := os.ReadFile(path) // #nosec G304 - path is chosen by the user
	if err != nil {
		return Artifact{}, fmt.Errorf("pipeline: read artifact: %w", err)
	}
	return NewArtifact(filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), content), nil
}

// IsEmpty returns true for a selection that carries neither a name nor content.
func (a Artifact) IsEmpty() bool {
	return a.Name == "" && len(a.Content) == 0
}

// Accepted reports whether the media type is an image or a PDF.
// The check is advisory: the controller never rejects an artifact on it.
func (a Artifact) Accepted() bool {
	return strings.HasPrefix(a.MediaType, "image/") || a.MediaType == mediaTypePDF
}

// Size returns the content length in bytes.
func (a Artifact) Size() int {
	return len(a.Content)
}

// clone returns a copy that does not share content with a.
func (a Artifact) clone() Artifact {
	a.Content = bytes.Clone(a.Content)
	return a
}

// normalizeMediaType lowercases a media type and drops its parameters.
func normalizeMediaType(mediaType string) string {
	base, _, _ := strings.Cut(mediaType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
