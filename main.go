package main

import (
	"log"

	"github.com/fnwrap/fnwrap/cmd"
)

func main() {
	log.Default().SetFlags(0)
	cmd.Execute()
}
