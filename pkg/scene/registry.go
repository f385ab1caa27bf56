package scene

import (
	"errors"
	"fmt"
)

// ErrUnknownScene is returned when no builtin scene has the requested ID
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a builtin scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type builtinScene struct {
	info  SceneInfo
	build func() *Scene
}

// builtinScenes lists the scenes in display order
var builtinScenes = []builtinScene{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Red sphere above a dark ground, between a green and a blue metal sphere",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "metals",
			DisplayName: "Metals",
			Description: "Matte sphere between a mirror and brushed gold",
		},
		build: NewMetalsScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-grid",
			DisplayName: "Sphere Grid",
			Description: "10x10 grid of rainbow-colored metal and matte spheres",
		},
		build: NewSphereGridScene,
	},
}

// ListScenes returns the builtin scenes in display order
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	for i, s := range builtinScenes {
		scenes[i] = s.info
	}
	return scenes
}

// New builds the builtin scene with the given ID
func New(id string) (*Scene, error) {
	for _, s := range builtinScenes {
		if s.info.ID == id {
			return s.build(), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}
