// Package main provides the dorisql command.
package main

import (
	"os"

	"github.com/leapstack-labs/dorisql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
