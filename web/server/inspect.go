package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
	"github.com/df07/go-realtime-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the hit record and the object an inspection ray hit
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Shape     geometry.Hittable // The direct member of the world that was hit
}

// inspectRayT matches the renderer's default self-intersection offset
var inspectRayT = core.NewInterval(0.001, math.Inf(1))

// inspectPixel casts a ray through the centre of a pixel of the scene's starting camera
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	camera := sceneObj.NewCamera(width, height)
	ray := camera.Viewport(width, height).Ray(pixelX, pixelY, 0, 0)

	hit, isHit := sceneObj.World.Hit(ray, inspectRayT)
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The list does not report which member was hit; find the one at the same distance
	for _, shape := range sceneObj.World.Objects {
		if shapeHit, ok := shape.Hit(ray, inspectRayT); ok && shapeHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Shape: shape}
		}
	}
	return InspectResult{Hit: true, HitRecord: hit}
}

func colorHex(c core.Vec3) string {
	unit := core.NewInterval(0, 1)
	return fmt.Sprintf("#%02x%02x%02x",
		int(unit.Clamp(c.X)*255), int(unit.Clamp(c.Y)*255), int(unit.Clamp(c.Z)*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = colorHex(m.Albedo)
		return "lambertian", properties

	case *material.Metal:
		properties["albedo"] = [3]float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z}
		properties["color"] = colorHex(m.Albedo)
		properties["fuzzness"] = m.Fuzzness
		return "metal", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Hittable) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.HittableList:
		properties["objects"] = geom.Len()
		return "list", properties

	default:
		return "unknown", properties
	}
}

// parsePixel reads the x and y query parameters, which must lie inside the image
func parsePixel(values url.Values, width, height int) (int, int, error) {
	if values.Get("x") == "" || values.Get("y") == "" {
		return 0, 0, fmt.Errorf("x and y are required")
	}
	x, err := parseIntParam(values, "x", 0, 0, width-1)
	if err != nil {
		return 0, 0, err
	}
	y, err := parseIntParam(values, "y", 0, 0, height-1)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, err := parseRenderRequest(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
	}

	pixelX, pixelY, err := parsePixel(c.QueryParams(), req.Width, req.Height)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid pixel: "+err.Error())
	}

	sceneObj, err := scene.New(req.Scene)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)
	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(result.HitRecord.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	rec := result.HitRecord
	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{rec.Point.X, rec.Point.Y, rec.Point.Z},
		Normal:       [3]float64{rec.Normal.X, rec.Normal.Y, rec.Normal.Z},
		Distance:     rec.T,
		FrontFace:    rec.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
