package main

import (
	"github.com/maxgio92/slicer/pkg/cmd"
)

func main() {
	cmd.Execute()
}
