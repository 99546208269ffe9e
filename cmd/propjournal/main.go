package main

import "github.com/danmarmu/trading-journal-app/internal/cli"

func main() {
	cli.Execute()
}
