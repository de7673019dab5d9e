package main

import (
	"os"

	"github.com/motocare/motocare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
