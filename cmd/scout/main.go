// Package main is the entry point for the VentureScout analysis service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/venturescout/venturescout/internal/scout"
)

func main() {
	scout.NewApp().Run()
}
