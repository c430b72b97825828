package main

import "github.com/mindriot101/whatson/internal/cli"

func main() {
	cli.Execute()
}
