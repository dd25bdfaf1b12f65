//go:build tinygo

package main

import (
	"nixieclock/app"
	"nixieclock/hal"
)

func main() {
	app.Run(hal.New())
}
