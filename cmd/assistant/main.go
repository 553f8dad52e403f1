// Package main provides the assistant CLI.
package main

import "github.com/mesh-intelligence/assistant/internal/cli"

func main() {
	cli.Execute()
}
