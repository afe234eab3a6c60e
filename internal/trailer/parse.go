package trailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResponse is returned when a response body matches neither
// supported shape or misses required fields.
var ErrMalformedResponse = errors.New("trailer: malformed response")

// Top-level keys that discriminate the two response shapes, in the order
// they are checked.
const (
	keyScenes = "scenes"
	keyScene  = "scene"
)

// shotListResponse is the {"scenes": [...]} shape.
type shotListResponse struct {
	Scenes []Scene `json:"scenes" validate:"required,min=1,dive"`
}

// consolidatedResponse is the {"scene": {...}, "video_blob": "..."} shape.
type consolidatedResponse struct {
	Scene     *ConsolidatedScene `json:"scene" validate:"required"`
	VideoBlob *string            `json:"video_blob"`
}

var validate = newValidator()

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseResponse turns a generation response body into a Result.
// It checks for the "scenes" key first and the "scene" key second; no
// other shape is accepted. Any failure wraps ErrMalformedResponse.
func ParseResponse(body []byte) (Result, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if top == nil {
		return Result{}, fmt.Errorf("%w: body is not a JSON object", ErrMalformedResponse)
	}

	if _, ok := top[keyScenes]; ok {
		return parseShotList(body)
	}
	if _, ok := top[keyScene]; ok {
		return parseConsolidated(body)
	}
	return Result{}, fmt.Errorf("%w: neither %q nor %q present", ErrMalformedResponse, keyScenes, keyScene)
}

func parseShotList(body []byte) (Result, error) {
	var resp shotListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, keyScenes, err)
	}
	if err := validate.Struct(resp); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return NewShotList(resp.Scenes), nil
}

func parseConsolidated(body []byte) (Result, error) {
	var resp consolidatedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, keyScene, err)
	}
	if err := validate.Struct(resp); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var blob string
	if resp.VideoBlob != nil {
		blob = *resp.VideoBlob
	}
	return NewConsolidated(*resp.Scene, blob), nil
}
