// Command bapimap checks and describes the BAPI types of Go packages
// without running them.
//
//	bapimap check ./...
//	bapimap describe bapi-mapper/examples/flight
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}
