package main

import (
	"github.com/proptic/proptic/internal/cmd"
)

func main() {
	cmd.Execute()
}
