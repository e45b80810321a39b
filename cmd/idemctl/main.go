// Command idemctl inspects and maintains idempotency entries kept in Postgres.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(openPostgres).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "idemctl:", err)
		os.Exit(1)
	}
}
