package main

import (
	"fmt"
	"os"

	"github.com/smileycoin/smlypow/cmd/smlypow/smlypow"
)

func main() {
	if err := smlypow.Start(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
