//go:build tools

package main

// Pins tool dependencies so `go generate` is reproducible.
import (
	_ "github.com/vektra/mockery/v2"
)
