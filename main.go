package main

import (
	"prop_sheets/internal/app"
	"prop_sheets/internal/cli"
)

func main() {
	app.SetupEnvironment()
	cli.Execute()
}
