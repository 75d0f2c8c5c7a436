// Package main provides the entrypoint for gh-webhook-gateway.
package main

import (
	"os"

	"github.com/isometry/gh-webhook-gateway/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
