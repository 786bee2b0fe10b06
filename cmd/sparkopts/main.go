// Command sparkopts validates option documents against schema files.
//
//	sparkopts check --schema service.yaml
//	sparkopts validate --schema service.yaml --input prod.yaml [--compiled]
//	sparkopts export --schema service.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
