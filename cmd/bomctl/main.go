package main

import "github.com/brimesh123/search-engine/internal/cli"

func main() {
	cli.Execute()
}
