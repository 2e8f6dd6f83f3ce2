// Command tetimprove builds a test lattice, improves it and prints a
// summary of the run.
//
//	tetimprove --cells 4 --jitter 0.3 --seed 7 --sizing --target 0.5 \
//	    --config opts.yaml --metrics-out run.prom
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
