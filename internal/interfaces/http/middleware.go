package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/pkg/logger"
)

// storePinger es el contrato mínimo que necesita RequireStore.
// Lo implementa repository.Store.
type storePinger interface {
	Ping(ctx context.Context) error
}

// RequireStore verifica que el almacenamiento responda antes de atender la ruta.
//
// Comportamiento:
//   - 503 Service Unavailable si el ping falla (archivo bloqueado, postgres caído).
//   - Si pinger es nil la ruta se atiende sin verificar.
func RequireStore(pinger storePinger, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if pinger == nil {
			return c.Next()
		}
		if err := pinger.Ping(c.UserContext()); err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("almacenamiento no disponible")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "STORE_UNAVAILABLE",
				Message: "almacenamiento no disponible, intente más tarde",
			})
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición con método, ruta, status y duración.
// Debe ir después de requestid.New() para incluir el id de la petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error().Err(err)
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request.complete")
		return err
	}
}
