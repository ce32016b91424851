package main

import (
	"github.com/vocdoni/cairo2chainstate/cmd"
)

func main() {
	cmd.Execute()
}
