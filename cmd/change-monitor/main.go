// Package main provides the change-monitor CLI application.
//
// change-monitor watches project directories for filesystem changes,
// coalesces event bursts, drops tool and build noise through filter
// rules, and delivers classified change events to the terminal or, in
// serve mode, to SSE subscribers over HTTP.
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
