package main

import "github.com/mcoot/lettergame/internal/cli"

func main() {
	cli.Execute()
}
