package main

import "github.com/grove-cli/grove/cli"

func main() {
	cli.Execute()
}
