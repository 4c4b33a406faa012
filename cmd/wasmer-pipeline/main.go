// Command wasmer-pipeline runs the Wasmer build and deploy jobs on this machine,
// or through a compiled pipeline plugin.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr)).Execute(); err != nil {
		os.Exit(1)
	}
}
