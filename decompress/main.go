package main

import (
	"flag"
	"log"
	"os"

	"github.com/fumin/huff"
)

func main() {
	flag.Parse()
	if err := huff.Decompress(os.Stdout, os.Stdin); err != nil {
		log.Fatalf("%v", err)
	}
}
