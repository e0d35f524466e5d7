package main

import (
	"os"

	"github.com/hemingjun/video-caption-generator/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
