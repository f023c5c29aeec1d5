package main

import (
	"github.com/hackatransparency/alfred-vision/cmd"
)

func main() {
	cmd.Execute()
}
