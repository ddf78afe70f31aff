package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger logs one line per request.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | ${reqHeader:Content-Type} ${bytesReceived}B in ${bytesSent}B out\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
