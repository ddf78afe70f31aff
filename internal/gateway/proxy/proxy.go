package proxy

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Forwarder
// ============================================================

// request headers passed through to the upstream service
var forwardHeaders = []string{"Content-Type", "Accept", "Authorization"}

// response headers that describe the hop, not the payload
var hopHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
	"Upgrade":           true,
}

// Forwarder relays requests to one upstream service, keeping method, path suffix, query
// and body. Multipart uploads are passed byte for byte with their boundary.
type Forwarder struct {
	base   string
	client *http.Client
}

func NewForwarder(base string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		base:   strings.TrimRight(base, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

// To forwards to a fixed upstream path.
func (f *Forwarder) To(path string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return f.Forward(c, path)
	}
}

// Strip forwards the request path with prefix removed.
func (f *Forwarder) Strip(prefix string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return f.Forward(c, strings.TrimPrefix(c.Path(), prefix))
	}
}

// Forward relays c to path on the upstream service.
func (f *Forwarder) Forward(c fiber.Ctx, path string) error {
	target := f.base + path
	if qs := c.Request().URI().QueryString(); len(qs) > 0 {
		target += "?" + string(qs)
	}
	log.Printf("[PROXY] %s %s -> %s (%d bytes)", c.Method(), c.Path(), target, len(c.Body()))

	req, err := http.NewRequest(c.Method(), target, bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[PROXY] build request error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}
	for _, h := range forwardHeaders {
		if v := c.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		log.Printf("[PROXY] Error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return copyResponse(c, resp)
}

func copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[PROXY] Read response error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !hopHeaders[http.CanonicalHeaderKey(key)] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
