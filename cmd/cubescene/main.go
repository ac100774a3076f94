// cubescene - an NxNxN twisty puzzle with animated layer turns, played in the terminal.
package main

import (
	"github.com/SeamusWaldron/cubescene/internal/cli"
)

func main() {
	cli.Execute()
}
