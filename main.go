package main

import (
	"os"

	"github.com/FleetRent-Admin/FleetRent-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
