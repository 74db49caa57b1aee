package main

import (
	"os"

	"github.com/interviewai/case-coach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
