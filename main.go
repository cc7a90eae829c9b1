// Package main is the entry point for the mgi CLI tool, which fetches GRID
// League of Legends series telemetry and scores untraded deaths by gravity.
package main

import "github.com/prabhakaran-jm/mistake-gravity-index/cmd"

func main() {
	cmd.Execute()
}
