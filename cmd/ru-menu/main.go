package main

import (
	_ "time/tzdata"

	"github.com/pfrederiksen/ru-menu/internal/cli"
)

func main() {
	cli.Execute()
}
