// Package main is the entry point for the tnuos TNUoS exposure
// calculator: TCR band classification, demand charge calculation,
// band drop analysis, what-if scenarios, multi-year forecasting and
// the HTTP API.
package main

import (
	"github.com/aristath/tnuos/internal/cli"
)

func main() {
	cli.Execute()
}
