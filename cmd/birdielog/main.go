package main

import (
	"github.com/birdielog/birdielog/internal/cli"
)

func main() {
	cli.Execute()
}
