package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fumin/huff"
)

var verbose = flag.Bool("verbose", false, "verbosity")

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] filename\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()

	cw := &countingWriter{w: os.Stdout}
	if err := huff.Compress(cw, f); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		fi, err := os.Stat(name)
		if err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("compressed %d bytes to %d bytes", fi.Size(), cw.n)
	}
}
