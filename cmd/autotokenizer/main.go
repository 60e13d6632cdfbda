// Package main provides the autotokenizer CLI.
package main

import "github.com/born-ml/autotokenizer/internal/cli"

func main() {
	cli.Execute()
}
