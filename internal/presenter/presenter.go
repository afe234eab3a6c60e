// Package presenter renders a pipeline session. Render is a pure function of
// a controller snapshot; WriteHTML and WriteText turn the resulting View
// into the web page and the terminal output.
package presenter

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/maauso/trailerforge/internal/pipeline"
	"github.com/maauso/trailerforge/internal/trailer"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Phase is the screen the session is on.
type Phase string

const (
	// PhaseIdle shows the selection affordance.
	PhaseIdle Phase = "idle"
	// PhaseProcessing shows an indeterminate progress indicator.
	PhaseProcessing Phase = "processing"
	// PhaseComplete shows the generated trailer.
	PhaseComplete Phase = "complete"
)

// Field is one labelled value on a scene card, shown verbatim.
type Field struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is one rendered scene.
type Card struct {
	// Number is the 1-based position in the shot list.
	Number int `json:"number"`
	// Mood is repeated in the card header.
	Mood string `json:"mood"`
	// Duration is the header duration label, e.g. "5s".
	Duration string `json:"duration"`
	// Fields lists every scene field in display order.
	Fields []Field `json:"fields"`
}

// View is everything a surface needs to draw one session screen.
type View struct {
	Phase         Phase        `json:"phase"`
	HasArtifact   bool         `json:"has_artifact"`
	ArtifactName  string       `json:"artifact_name,omitempty"`
	SubmitEnabled bool         `json:"submit_enabled"`
	Pending       bool         `json:"pending,omitempty"`
	SubmitLabel   string       `json:"submit_label"`
	Notice        string       `json:"notice,omitempty"`
	Kind          trailer.Kind `json:"kind,omitempty"`
	Heading       string       `json:"heading,omitempty"`
	Cards         []Card       `json:"cards,omitempty"`
	MediaURL      string       `json:"media_url,omitempty"`
}

// Presenter renders snapshots. It resolves media references against mediaBase.
type Presenter struct {
	mediaBase string
	page      *template.Template
}

// New creates a Presenter that resolves media URLs under mediaBase.
func New(mediaBase string) (*Presenter, error) {
	page, err := template.ParseFS(templateFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("presenter: parse templates: %w", err)
	}
	return &Presenter{mediaBase: mediaBase, page: page}, nil
}

// Render builds the View for a snapshot. It never mutates the session.
func (p *Presenter) Render(snap pipeline.Snapshot) View {
	v := View{
		HasArtifact:   snap.HasArtifact,
		ArtifactName:  snap.ArtifactName,
		SubmitEnabled: snap.CanSubmit(),
		Pending:       snap.Pending,
		SubmitLabel:   "Create Masterpiece",
		Notice:        snap.Notice,
	}

	switch snap.State {
	case pipeline.StateProcessing:
		v.Phase = PhaseProcessing
	case pipeline.StateComplete:
		v.Phase = PhaseComplete
		v.SubmitLabel = "Trailer Generated"
		if snap.Result != nil {
			p.renderResult(&v, *snap.Result)
		}
	default:
		// StateFailed never outlives a transition; it renders like idle.
		v.Phase = PhaseIdle
	}

	return v
}

func (p *Presenter) renderResult(v *View, res trailer.Result) {
	v.Kind = res.Kind
	switch res.Kind {
	case trailer.KindShotList:
		v.Heading = "Director's Shot List"
		v.Cards = make([]Card, 0, len(res.Scenes))
		for i, s := range res.Scenes {
			v.Cards = append(v.Cards, shotCard(i+1, s))
		}
	case trailer.KindConsolidated:
		v.Heading = "Consolidated Trailer"
		if res.Scene != nil {
			v.Cards = []Card{consolidatedCard(*res.Scene)}
		}
		v.MediaURL = trailer.MediaURL(p.mediaBase, res.VideoBlob)
	}
}

func shotCard(number int, s trailer.Scene) Card {
	duration := strconv.Itoa(s.DurationSeconds)
	return Card{
		Number:   number,
		Mood:     s.Mood,
		Duration: duration + "s",
		Fields: []Field{
			{Key: "video_prompt", Label: "Visual Prompt", Value: s.VideoPrompt},
			{Key: "camera_movement", Label: "Camera Movement", Value: s.CameraMovement},
			{Key: "visual_metaphor", Label: "Visual Metaphor", Value: s.VisualMetaphor},
			{Key: "voiceover_script", Label: "Voiceover Script", Value: s.VoiceoverScript},
			{Key: "audio_landscape", Label: "Audio Landscape", Value: s.AudioLandscape},
			{Key: "mood", Label: "Mood", Value: s.Mood},
			{Key: "duration_seconds", Label: "Duration (seconds)", Value: duration},
		},
	}
}

func consolidatedCard(s trailer.ConsolidatedScene) Card {
	return Card{
		Number:   1,
		Mood:     s.Mood,
		Duration: strconv.Itoa(int(trailer.ConsolidatedDuration.Seconds())) + "s",
		Fields: []Field{
			{Key: "video_prompt", Label: "Visual Prompt", Value: s.VideoPrompt},
			{Key: "camera_choreography", Label: "Camera Choreography", Value: s.CameraChoreography},
			{Key: "lighting_evolution", Label: "Lighting Evolution", Value: s.LightingEvolution},
			{Key: "visual_metaphor", Label: "Visual Metaphor", Value: s.VisualMetaphor},
			{Key: "voiceover_script", Label: "Voiceover Script", Value: s.VoiceoverScript},
			{Key: "audio_landscape", Label: "Audio Landscape", Value: s.AudioLandscape},
			{Key: "mood", Label: "Mood", Value: s.Mood},
		},
	}
}

// WriteHTML renders the view as the web client page.
func (p *Presenter) WriteHTML(w io.Writer, v View) error {
	if err := p.page.Execute(w, v); err != nil {
		return fmt.Errorf("presenter: render page: %w", err)
	}
	return nil
}
