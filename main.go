package main

import (
	"os"

	"github.com/JZhaGuo/trafico/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
