package main

import "github.com/vanshika/moviestore/internal/cli"

func main() {
	cli.Execute()
}
