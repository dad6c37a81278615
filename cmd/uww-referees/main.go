package main

import "github.com/pfrederiksen/uww-referees/internal/cli"

func main() {
	cli.Execute()
}
