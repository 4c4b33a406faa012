package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Greeting is the body served on /.
const Greeting = "Hello, Fiber ❤️ WASMER!"

// DefaultPort is used when PORT is unset.
const DefaultPort = "80"

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(Greeting)
	})
	return app
}

// listenAddr returns the loopback address for port.
func listenAddr(port string) (string, error) {
	if port == "" {
		port = DefaultPort
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("Invalid port number: %s", port) //nolint:staticcheck // ST1005: user-facing message
	}
	return net.JoinHostPort("127.0.0.1", port), nil
}
