package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/storage"
	"github.com/maauso/trailerforge/internal/trailer"
)

// memoryStorage records the last Put.
type memoryStorage struct {
	key  string
	data []byte
	err  error
}

func (m *memoryStorage) Put(_ context.Context, key string, data io.Reader) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.key = key
	m.data = b
	return "mem://" + key, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func shotListSnapshot() pipeline.Snapshot {
	res := trailer.NewShotList([]trailer.Scene{
		{
			VideoPrompt:     "A candle in the dark",
			CameraMovement:  "Slow push in",
			AudioLandscape:  "Wind",
			VoiceoverScript: "It begins.",
			VisualMetaphor:  "Flame",
			Mood:            "Ominous",
			DurationSeconds: 4,
		},
		{
			VideoPrompt:     "A city burning",
			CameraMovement:  "Aerial pull back",
			AudioLandscape:  "Sirens",
			VoiceoverScript: "It ends.",
			VisualMetaphor:  "Ashes",
			Mood:            "Epic",
			DurationSeconds: 6,
		},
	})
	return pipeline.Snapshot{
		State:        pipeline.StateComplete,
		HasArtifact:  true,
		ArtifactName: "manuscript.pdf",
		Result:       &res,
	}
}

func consolidatedSnapshot(blob string) pipeline.Snapshot {
	res := trailer.NewConsolidated(trailer.ConsolidatedScene{
		VideoPrompt:        "A lighthouse in a storm",
		CameraChoreography: "Orbit",
		AudioLandscape:     "Thunder",
		VoiceoverScript:    "Hold on.",
		VisualMetaphor:     "Beacon",
		LightingEvolution:  "Dark to dawn",
		Mood:               "Hopeful",
	}, blob)
	return pipeline.Snapshot{
		State:        pipeline.StateComplete,
		HasArtifact:  true,
		ArtifactName: "cover.png",
		Result:       &res,
	}
}

func newTestExporter(store storage.Storage, opts ...Option) *Exporter {
	e := NewExporter(store, opts...)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestExporter_Export_ShotListJSON(t *testing.T) {
	store := &memoryStorage{}
	e := newTestExporter(store)

	location, err := e.Export(context.Background(), shotListSnapshot())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^trailer-\d+-[0-9a-f]{8}\.json$`), store.key)
	assert.Equal(t, "mem://"+store.key, location)

	var doc Document
	require.NoError(t, json.Unmarshal(store.data, &doc))
	assert.Equal(t, strings.TrimSuffix(store.key, ".json"), doc.ID)
	assert.Equal(t, "manuscript.pdf", doc.Artifact)
	assert.Equal(t, trailer.KindShotList, doc.Kind)
	assert.Equal(t, 10, doc.DurationSeconds)
	require.Len(t, doc.Scenes, 2)
	assert.Equal(t, "A candle in the dark", doc.Scenes[0].VideoPrompt)
	assert.Equal(t, "A city burning", doc.Scenes[1].VideoPrompt)
	assert.Nil(t, doc.Scene)
	assert.Empty(t, doc.MediaURL)
	assert.True(t, fixedNow.Equal(doc.ExportedAt))
}

func TestExporter_Export_ConsolidatedYAML(t *testing.T) {
	store := &memoryStorage{}
	e := newTestExporter(store,
		WithFormat(FormatYAML),
		WithMediaBase("http://media.local/"),
	)

	_, err := e.Export(context.Background(), consolidatedSnapshot("abc123.mp4"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(store.key, ".yaml"))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(store.data, &doc))
	assert.Equal(t, "cover.png", doc["artifact"])
	assert.Equal(t, "consolidated", doc["kind"])
	assert.Equal(t, 15, doc["duration_seconds"])
	assert.Equal(t, "http://media.local/media/video/abc123.mp4", doc["media_url"])
	assert.NotContains(t, doc, "scenes")

	scene, ok := doc["scene"].(map[string]any)
	require.True(t, ok, "scene should be a mapping")
	assert.Equal(t, "Dark to dawn", scene["lighting_evolution"])
	assert.Equal(t, "Orbit", scene["camera_choreography"])
}

func TestExporter_Export_ConsolidatedWithoutMedia(t *testing.T) {
	store := &memoryStorage{}
	e := newTestExporter(store, WithMediaBase("http://media.local"))

	_, err := e.Export(context.Background(), consolidatedSnapshot(""))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(store.data, &doc))
	assert.Empty(t, doc.MediaURL)
	require.NotNil(t, doc.Scene)
	assert.Equal(t, "Hopeful", doc.Scene.Mood)
}

func TestExporter_Export_NothingToExport(t *testing.T) {
	tests := []struct {
		name string
		snap pipeline.Snapshot
	}{
		{name: "idle", snap: pipeline.Snapshot{State: pipeline.StateIdle}},
		{name: "idle with artifact", snap: pipeline.Snapshot{State: pipeline.StateIdle, HasArtifact: true, ArtifactName: "a.png"}},
		{name: "processing", snap: pipeline.Snapshot{State: pipeline.StateProcessing, HasArtifact: true}},
		{name: "complete without result", snap: pipeline.Snapshot{State: pipeline.StateComplete}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStorage{}
			e := newTestExporter(store)

			_, err := e.Export(context.Background(), tt.snap)
			assert.ErrorIs(t, err, ErrNothingToExport)
			assert.Empty(t, store.key)
		})
	}
}

func TestExporter_Export_UnsupportedFormat(t *testing.T) {
	store := &memoryStorage{}
	e := newTestExporter(store, WithFormat("xml"))

	_, err := e.Export(context.Background(), shotListSnapshot())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, store.key)
}

func TestExporter_Export_StorageError(t *testing.T) {
	errBoom := errors.New("disk full")
	e := newTestExporter(&memoryStorage{err: errBoom})

	_, err := e.Export(context.Background(), shotListSnapshot())
	assert.ErrorIs(t, err, errBoom)
}

func TestExporter_Export_LocalStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	e := newTestExporter(store)
	location, err := e.Export(context.Background(), shotListSnapshot())
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(location))
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("\n")))
	assert.Contains(t, string(data), `"kind": "shot_list"`)
}
