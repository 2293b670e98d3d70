package main

import "github.com/roach88/stratui/internal/cli"

func main() {
	cli.Main()
}
