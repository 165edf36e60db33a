// Command aggregen generates aggregate data-access code from a database
// schema and a declarative relation config.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "aggregen:", err)
		os.Exit(1)
	}
}
