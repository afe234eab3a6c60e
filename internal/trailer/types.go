// Package trailer defines the generated trailer result returned by the
// generation service and the parsing step that turns a raw response body
// into one of its two supported shapes.
package trailer

import "time"

// ConsolidatedDuration is the fixed length of a consolidated single-shot trailer.
const ConsolidatedDuration = 15 * time.Second

// Kind identifies which response shape a Result was parsed from.
type Kind string

const (
	// KindShotList is an ordered list of discrete scenes (the "scenes" key).
	KindShotList Kind = "shot_list"
	// KindConsolidated is one consolidated scene plus optional video (the "scene" key).
	KindConsolidated Kind = "consolidated"
)

// Scene is one shot in an ordered shot list.
type Scene struct {
	// VideoPrompt is the generative video prompt.
	VideoPrompt string `json:"video_prompt" yaml:"video_prompt" validate:"required"`
	// CameraMovement describes the camera instructions for the shot.
	CameraMovement string `json:"camera_movement" yaml:"camera_movement" validate:"required"`
	// AudioLandscape describes the sound design.
	AudioLandscape string `json:"audio_landscape" yaml:"audio_landscape" validate:"required"`
	// VoiceoverScript is the spoken line.
	VoiceoverScript string `json:"voiceover_script" yaml:"voiceover_script" validate:"required"`
	// VisualMetaphor is the symbol the shot shows.
	VisualMetaphor string `json:"visual_metaphor" yaml:"visual_metaphor" validate:"required"`
	// Mood is the emotional label of the shot.
	Mood string `json:"mood" yaml:"mood" validate:"required"`
	// DurationSeconds is the length of the shot.
	DurationSeconds int `json:"duration_seconds" yaml:"duration_seconds" validate:"required,min=1"`
}

// ConsolidatedScene is the single-shot trailer description. It has no
// duration field; its length is always ConsolidatedDuration.
type ConsolidatedScene struct {
	// VideoPrompt is the generative video prompt for the whole trailer.
	VideoPrompt string `json:"video_prompt" yaml:"video_prompt" validate:"required"`
	// CameraChoreography describes the camera path across the single shot.
	CameraChoreography string `json:"camera_choreography" yaml:"camera_choreography" validate:"required"`
	// AudioLandscape describes the sound design.
	AudioLandscape string `json:"audio_landscape" yaml:"audio_landscape" validate:"required"`
	// VoiceoverScript is the spoken narration.
	VoiceoverScript string `json:"voiceover_script" yaml:"voiceover_script" validate:"required"`
	// VisualMetaphor is the central symbol of the shot.
	VisualMetaphor string `json:"visual_metaphor" yaml:"visual_metaphor" validate:"required"`
	// LightingEvolution describes how the light changes over the shot.
	LightingEvolution string `json:"lighting_evolution" yaml:"lighting_evolution" validate:"required"`
	// Mood is the emotional label of the trailer.
	Mood string `json:"mood" yaml:"mood" validate:"required"`
}

// Result is a generated trailer. Exactly one of Scenes or Scene is set,
// according to Kind.
type Result struct {
	// Kind tells which of the two shapes is populated.
	Kind Kind
	// Scenes is the ordered shot list (KindShotList only).
	Scenes []Scene
	// Scene is the consolidated shot (KindConsolidated only).
	Scene *ConsolidatedScene
	// VideoBlob is the opaque media reference (KindConsolidated only, optional).
	VideoBlob string
}

// NewShotList creates a shot-list result from an ordered scene slice.
func NewShotList(scenes []Scene) Result {
	out := make([]Scene, len(scenes))
	copy(out, scenes)
	return Result{Kind: KindShotList, Scenes: out}
}

// NewConsolidated creates a consolidated result. videoBlob may be empty.
func NewConsolidated(scene ConsolidatedScene, videoBlob string) Result {
	return Result{Kind: KindConsolidated, Scene: &scene, VideoBlob: videoBlob}
}

// HasMedia returns true if the result carries a media reference.
func (r Result) HasMedia() bool {
	return r.Kind == KindConsolidated && r.VideoBlob != ""
}

// Clone returns a deep copy of the result.
func (r Result) Clone() Result {
	out := Result{Kind: r.Kind, VideoBlob: r.VideoBlob}
	if r.Scenes != nil {
		out.Scenes = make([]Scene, len(r.Scenes))
		copy(out.Scenes, r.Scenes)
	}
	if r.Scene != nil {
		scene := *r.Scene
		out.Scene = &scene
	}
	return out
}
