// Package export saves a completed trailer as a JSON or YAML document.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/maauso/trailerforge/internal/export/id"
	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/storage"
	"github.com/maauso/trailerforge/internal/trailer"
)

// Format is the encoding of an exported document.
type Format string

const (
	// FormatJSON encodes documents as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML encodes documents as YAML.
	FormatYAML Format = "yaml"
)

// Static errors for export operations.
var (
	// ErrNothingToExport is returned when the session holds no completed trailer.
	ErrNothingToExport = errors.New("export: no completed trailer to export")
	// ErrUnsupportedFormat is returned for an unknown Format.
	ErrUnsupportedFormat = errors.New("export: unsupported format")
)

// Document is the exported representation of a trailer.
type Document struct {
	ID              string                     `json:"id" yaml:"id"`
	Artifact        string                     `json:"artifact" yaml:"artifact"`
	Kind            trailer.Kind               `json:"kind" yaml:"kind"`
	DurationSeconds int                        `json:"duration_seconds" yaml:"duration_seconds"`
	Scenes          []trailer.Scene            `json:"scenes,omitempty" yaml:"scenes,omitempty"`
	Scene           *trailer.ConsolidatedScene `json:"scene,omitempty" yaml:"scene,omitempty"`
	MediaURL        string                     `json:"media_url,omitempty" yaml:"media_url,omitempty"`
	ExportedAt      time.Time                  `json:"exported_at" yaml:"exported_at"`
}

// Exporter writes completed trailers to a storage backend.
type Exporter struct {
	store     storage.Storage
	format    Format
	mediaBase string
	logger    *slog.Logger
	now       func() time.Time
}

// Option is a function that configures an Exporter.
type Option func(*Exporter)

// WithFormat sets the document encoding. Defaults to FormatJSON.
func WithFormat(f Format) Option {
	return func(e *Exporter) {
		e.format = f
	}
}

// WithMediaBase sets the base URL used to resolve media references.
func WithMediaBase(base string) Option {
	return func(e *Exporter) {
		e.mediaBase = base
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExporter creates an Exporter that writes to store.
func NewExporter(store storage.Storage, opts ...Option) *Exporter {
	e := &Exporter{
		store:  store,
		format: FormatJSON,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export saves the trailer held by a completed session snapshot and returns
// where it was written.
func (e *Exporter) Export(ctx context.Context, snap pipeline.Snapshot) (string, error) {
	if snap.State != pipeline.StateComplete || snap.Result == nil {
		return "", ErrNothingToExport
	}

	doc := e.document(snap.ArtifactName, *snap.Result)

	data, err := e.encode(doc)
	if err != nil {
		return "", err
	}

	key := doc.ID + "." + string(e.format)
	location, err := e.store.Put(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("export: store document: %w", err)
	}

	e.logger.Info("trailer exported",
		slog.String("export_id", doc.ID),
		slog.String("artifact", doc.Artifact),
		slog.String("kind", string(doc.Kind)),
		slog.String("location", location),
	)
	return location, nil
}

func (e *Exporter) document(artifact string, res trailer.Result) Document {
	doc := Document{
		ID:         id.Generate(),
		Artifact:   artifact,
		Kind:       res.Kind,
		ExportedAt: e.now().UTC(),
	}

	switch res.Kind {
	case trailer.KindShotList:
		doc.Scenes = res.Scenes
		for _, s := range res.Scenes {
			doc.DurationSeconds += s.DurationSeconds
		}
	case trailer.KindConsolidated:
		doc.Scene = res.Scene
		doc.DurationSeconds = int(trailer.ConsolidatedDuration.Seconds())
		doc.MediaURL = trailer.MediaURL(e.mediaBase, res.VideoBlob)
	}
	return doc
}

func (e *Exporter) encode(doc Document) ([]byte, error) {
	switch e.format {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("export: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("export: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, e.format)
	}
}
