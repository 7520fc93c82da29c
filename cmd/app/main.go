package main

import (
	"os"

	"github.com/Dibyajyoti630/RedZone/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		os.Exit(1)
	}
}
