package main

import "github.com/deskflow/ticket-assistant/internal/cli"

func main() {
	cli.Execute()
}
