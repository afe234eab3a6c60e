package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consolidatedBody = `{
	"scene": {
		"video_prompt": "A lighthouse in a storm",
		"camera_choreography": "Slow orbit",
		"audio_landscape": "Thunder",
		"voiceover_script": "Hold on.",
		"visual_metaphor": "The beam",
		"lighting_evolution": "Dark to dawn",
		"mood": "Hopeful"
	},
	"video_blob": "abc.mp4"
}`

func setupEnv(t *testing.T, apiURL string) string {
	t.Helper()
	exportDir := t.TempDir()
	t.Setenv("TRAILERFORGE_API_URL", apiURL)
	t.Setenv("TRAILERFORGE_MEDIA_URL", "")
	t.Setenv("EXPORT_DIR", exportDir)
	t.Setenv("EXPORT_FORMAT", "json")
	t.Setenv("S3_BUCKET", "")
	t.Setenv("S3_REGION", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	return exportDir
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(consolidatedBody))
	}))
	defer backend.Close()

	exportDir := setupEnv(t, backend.URL)

	out, err := runCLI(t, "generate", writeArtifact(t), "--export")
	require.NoError(t, err)

	assert.Contains(t, out, "Consolidated Trailer")
	assert.Contains(t, out, "Dark to dawn")
	assert.Contains(t, out, backend.URL+"/media/video/abc.mp4")
	assert.Contains(t, out, "Exported to "+exportDir)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGenerateCommand_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	setupEnv(t, backend.URL)

	out, err := runCLI(t, "generate", writeArtifact(t))
	require.ErrorIs(t, err, errGenerationFailed)
	assert.Contains(t, out, "AI pipeline failed. Check if your backend is running!")
}

func TestGenerateCommand_MissingFile(t *testing.T) {
	setupEnv(t, "http://localhost:1")

	_, err := runCLI(t, "generate", filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
}

func TestGenerateCommand_RequiresArgument(t *testing.T) {
	_, err := runCLI(t, "generate")
	require.Error(t, err)
}
