package server

import (
	"bytes"
	"image/png"
	"math"

	"github.com/ChicagoDave/ridemap/pkg/camera"
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/routing"
	"github.com/ChicagoDave/ridemap/pkg/scene"
	"github.com/ChicagoDave/ridemap/pkg/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// maxFrameSize bounds requested frame dimensions.
const maxFrameSize = 4096

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(`<!DOCTYPE html>
<html><head><title>ridemap</title></head>
<body style="margin:0;background:#161a24;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<img id="frame" src="/api/frame.png" alt="navigation frame">
<script>setInterval(function(){document.getElementById("frame").src="/api/frame.png?t="+Date.now()},1000)</script>
</body></html>`)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"scene_id": s.scene.ID,
	})
}

func (s *Server) handleScene(c *fiber.Ctx) error {
	return c.JSON(s.scene.Scene2D())
}

func (s *Server) handleGraph(c *fiber.Ctx) error {
	return c.JSON(s.scene.Graph())
}

func (s *Server) handleValidation(c *fiber.Ctx) error {
	r := validation.Validate(s.scene.Spec)
	r.Merge(scene.ValidateGraph(s.scene.Graph()))
	return c.JSON(r)
}

func (s *Server) handleGeoJSON(c *fiber.Ctx) error {
	data, err := s.scene.Scene2D().GeoJSON().MarshalJSON()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to encode GeoJSON")
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(data)
}

func (s *Server) handleMap(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.scene.MapImage()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to encode map")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

// screenSize reads w and h from the query, defaulting to the scene's screen.
func (s *Server) screenSize(c *fiber.Ctx) (int, int, error) {
	w := c.QueryInt("w", s.scene.Spec.Screen.Width)
	h := c.QueryInt("h", s.scene.Spec.Screen.Height)
	if w <= 0 || h <= 0 || w > maxFrameSize || h > maxFrameSize {
		return 0, 0, fiber.NewError(fiber.StatusBadRequest, "w and h must be between 1 and 4096")
	}
	return w, h, nil
}

func (s *Server) handleFrame(c *fiber.Ctx) error {
	w, h, err := s.screenSize(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.scene.Frame(w, h)); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to encode frame")
	}
	c.Type("png")
	return c.Send(buf.Bytes())
}

// TransformResponse is the camera state and the transform it produces.
type TransformResponse struct {
	TranslateX float64      `json:"translate_x"`
	TranslateY float64      `json:"translate_y"`
	Scale      float64      `json:"scale"`
	State      camera.State `json:"state"`
	Progress   float64      `json:"progress"`
}

func (s *Server) transformResponse(w, h int) TransformResponse {
	st := s.scene.Camera.State()
	tr := camera.ComputeTransform(float64(w), float64(h), st)
	return TransformResponse{
		TranslateX: tr.TranslateX,
		TranslateY: tr.TranslateY,
		Scale:      tr.Scale,
		State:      st,
		Progress:   s.scene.Progress(),
	}
}

func (s *Server) handleTransform(c *fiber.Ctx) error {
	w, h, err := s.screenSize(c)
	if err != nil {
		return err
	}
	return c.JSON(s.transformResponse(w, h))
}

func (s *Server) handleDrift(c *fiber.Ctx) error {
	var req geo.Point
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if !finite(req.X) || !finite(req.Y) {
		return fiber.NewError(fiber.StatusBadRequest, "Drift must be finite")
	}
	s.feed.Push(req)
	s.log.WithField("offset", req).Debug("drift pushed")
	return c.JSON(s.transformResponse(s.scene.Spec.Screen.Width, s.scene.Spec.Screen.Height))
}

type advanceRequest struct {
	T *float64 `json:"t"`
}

func (s *Server) handleAdvance(c *fiber.Ctx) error {
	var req advanceRequest
	if err := c.BodyParser(&req); err != nil || req.T == nil || math.IsNaN(*req.T) {
		return fiber.NewError(fiber.StatusBadRequest, "Request body must be {\"t\": <0..1>}")
	}
	p := s.scene.Advance(*req.T)
	return c.JSON(fiber.Map{
		"tracked":  p,
		"progress": s.scene.Progress(),
	})
}

type rerouteRequest struct {
	Start *geo.Point `json:"start"`
	End   *geo.Point `json:"end"`
}

func (s *Server) handleReroute(c *fiber.Ctx) error {
	var req rerouteRequest
	if err := c.BodyParser(&req); err != nil || req.Start == nil || req.End == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Request body must be {\"start\": {x,y}, \"end\": {x,y}}")
	}
	for _, p := range []geo.Point{*req.Start, *req.End} {
		if !finite(p.X) || !finite(p.Y) {
			return fiber.NewError(fiber.StatusBadRequest, "Route points must be finite")
		}
	}

	route := s.scene.Reroute(*req.Start, *req.End)
	// Rerouting releases the previous subscription.
	s.scene.AttachDrift(s.feed, nil)

	s.log.WithFields(logrus.Fields{
		"start":  *req.Start,
		"end":    *req.End,
		"points": len(route),
	}).Info("rerouted")
	return c.JSON(fiber.Map{
		"route":   route,
		"summary": routing.Summarize(route),
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
