package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/open-teleop/cockpit/domain/teleop"
	customlog "github.com/open-teleop/cockpit/pkg/log"
)

// TeleopHandler holds dependencies for the teleop REST endpoints.
type TeleopHandler struct {
	multipliers *teleop.Multipliers
	reporter    *teleop.StatusReporter
	logger      customlog.Logger
}

// RegisterTeleopRoutes registers the teleop API endpoints with the Fiber app.
func RegisterTeleopRoutes(
	app *fiber.App,
	multipliers *teleop.Multipliers,
	reporter *teleop.StatusReporter,
	logger customlog.Logger,
) {
	h := &TeleopHandler{
		multipliers: multipliers,
		reporter:    reporter,
		logger:      logger,
	}

	apiGroup := app.Group("/api/v1/teleop")
	apiGroup.Get("/status", h.handleGetStatus)
	apiGroup.Get("/multipliers", h.handleGetMultipliers)
	apiGroup.Put("/multipliers", h.handleUpdateMultipliers)

	logger.Infof("Registered teleop API endpoints under /api/v1/teleop")
}

func (h *TeleopHandler) handleGetStatus(c *fiber.Ctx) error {
	link, activity := h.reporter.Snapshot()
	return c.JSON(fiber.Map{
		"link":     link,
		"activity": activity,
	})
}

func (h *TeleopHandler) handleGetMultipliers(c *fiber.Ctx) error {
	linear, angular := h.multipliers.Snapshot()
	linearMax, angularMax := h.multipliers.Bounds()
	return c.JSON(MultipliersBody{
		Linear:     linear,
		Angular:    angular,
		LinearMax:  linearMax,
		AngularMax: angularMax,
	})
}

// handleUpdateMultipliers applies new scale factors, clamped to the
// configured bounds, and echoes the values actually applied.
func (h *TeleopHandler) handleUpdateMultipliers(c *fiber.Ctx) error {
	var body MultipliersBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	linear, angular := h.multipliers.Set(body.Linear, body.Angular)
	h.logger.Infof("Multipliers updated: linear=%.2f angular=%.2f", linear, angular)

	linearMax, angularMax := h.multipliers.Bounds()
	return c.JSON(MultipliersBody{
		Linear:     linear,
		Angular:    angular,
		LinearMax:  linearMax,
		AngularMax: angularMax,
	})
}
