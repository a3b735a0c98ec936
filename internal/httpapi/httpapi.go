// Package httpapi is a thin translator over the four core operations spec
// §6 names (OpenReader, Prefetch, Get, StaticLookup) — no derived-variable
// catalogs baked into route code, no response shaping beyond assembling the
// per-timestamp arrays the core already returns. Grounded on the teacher's
// server/http.go: one fiber.App, the same xhhuango/json codec wiring, the
// same query-parameter validation shape (latitude/longitude range checks,
// calculation-time field on the response).
package httpapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xhhuango/json"

	"github.com/Klomgor/open-meteo/internal/openmeteo/logging"
	"github.com/Klomgor/open-meteo/internal/openmeteo/reader"
	"github.com/Klomgor/open-meteo/internal/openmeteo/runtime"
	"github.com/Klomgor/open-meteo/internal/openmeteo/timeutil"
)

// Server wraps a fiber.App bound to one runtime.Registry.
type Server struct {
	app      *fiber.App
	registry *runtime.Registry
}

// variableResult is one entry of the forecast response's "variables" map.
type variableResult struct {
	Unit string    `json:"unit"`
	Data []float64 `json:"data"`
}

// forecastResponse mirrors the teacher's ForecastResponse shape
// (calculation time, echoed coordinates, a flat map of series) but keyed by
// variable name rather than split into daily/hourly/minutely15 buckets —
// bucketing by calendar cadence is display logic spec §1 places outside the
// core's scope, the caller's chosen (start, end, dt) already says what
// cadence it wants.
type forecastResponse struct {
	CalculationTimeMicros int64                      `json:"calculation_time_us"`
	Latitude              float64                    `json:"latitude"`
	Longitude             float64                    `json:"longitude"`
	Model                 string                     `json:"model"`
	Elevation             *float64                   `json:"elevation,omitempty"`
	Variables             map[string]variableResult  `json:"variables"`
	Errors                map[string]string          `json:"errors,omitempty"`
}

// New builds a Server routing every request through registry.
func New(registry *runtime.Registry) *Server {
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
		ServerHeader:          "open-meteo-core",
	})

	s := &Server{app: app, registry: registry}
	app.Get("/forecast", s.handleForecast)
	return s
}

// Listen blocks serving HTTP on addr, matching the teacher's
// StartServer(port)'s own blocking app.Listen call.
func (s *Server) Listen(addr string) error {
	logging.Log.Info().Msgf("HTTP server listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) handleForecast(c *fiber.Ctx) error {
	start := time.Now()

	lat := c.QueryFloat("lat")
	if lat < -90 || lat > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid latitude"})
	}
	lon := c.QueryFloat("lon")
	if lon < -180 || lon > 180 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid longitude"})
	}

	model := c.Query("model", "best_match")

	names := splitCSV(c.Query("variables"))
	if len(names) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no variables specified"})
	}

	startTs, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid start"})
	}
	endTs, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid end"})
	}
	dt, err := strconv.ParseInt(c.Query("dt", "3600"), 10, 64)
	if err != nil || dt <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid dt"})
	}
	tr, err := timeutil.NewTimeRange(startTs, endTs, dt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	selection := reader.Nearest
	if c.Query("selection") == "terrainOptimised" {
		selection = reader.TerrainOptimised
	}

	var elevationOverride *float64
	if raw := c.Query("elevation"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid elevation"})
		}
		elevationOverride = &v
	}

	ctx := context.Background()
	acc, err := s.registry.OpenReader(ctx, model, lat, lon, elevationOverride, selection)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	variables := make(map[string]variableResult, len(names))
	errs := make(map[string]string)
	for _, name := range names {
		s.registry.Prefetch(ctx, acc, name, tr)
	}
	for _, name := range names {
		res, err := s.registry.Get(ctx, acc, name, lat, lon, tr)
		if err != nil {
			errs[name] = err.Error()
			continue
		}
		variables[name] = variableResult{Unit: string(res.Unit), Data: res.Data}
	}

	resp := forecastResponse{
		CalculationTimeMicros: time.Since(start).Microseconds(),
		Latitude:              lat,
		Longitude:             lon,
		Model:                 model,
		Variables:             variables,
	}
	if len(errs) > 0 {
		resp.Errors = errs
	}
	if elev, ok := s.registry.StaticLookup(acc, reader.StaticElevation); ok {
		resp.Elevation = &elev
	}

	return c.JSON(resp)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
