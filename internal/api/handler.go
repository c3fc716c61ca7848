package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/market-snapshot/internal/snapshot"
	"github.com/Checker-Finance/market-snapshot/internal/venue"
)

type Handler struct {
	Logger  *zap.Logger
	Service *snapshot.Service
}

// MarketSnapshot handles GET /market_snapshot?symbol=&exchange=&timeframe=.
func (h *Handler) MarketSnapshot(c *fiber.Ctx) error {
	symbol := c.Query("symbol")
	if symbol == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing symbol"})
	}

	req := snapshot.Request{
		Symbol:    symbol,
		Exchange:  c.Query("exchange", "okx"),
		Timeframe: c.Query("timeframe"),
	}

	snap, err := h.Service.Snapshot(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, venue.ErrInvalidSymbol), errors.Is(err, venue.ErrUnknownVenue):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case venue.IsUpstream(err):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
		default:
			h.Logger.Error("snapshot_failed",
				zap.String("symbol", symbol),
				zap.String("exchange", req.Exchange),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.Status(fiber.StatusOK).JSON(snap)
}
