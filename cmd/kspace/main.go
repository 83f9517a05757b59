// SPDX-License-Identifier: MIT

// Command kspace runs the non-abelian response engine on an analytic model.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
