// Command okreq sends HTTP requests from the command line.
package main

import (
	"context"
	"os"

	"github.com/ssj4429108/OkRequest/cmd/okreq/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
