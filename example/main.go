// Command example is the hello-world service the pipeline builds and deploys
// to Wasmer Edge.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	addr, err := listenAddr(os.Getenv("PORT"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := newApp()
	fmt.Fprintf(os.Stderr, "Listening on http://%s\n", addr)
	if err := app.Listen(addr); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
