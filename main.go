package main

import (
	"os"

	"github.com/secretscout-io/secretscout/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
