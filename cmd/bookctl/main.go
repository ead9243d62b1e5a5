// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command bookctl is the command-line admin client for the bookdesk gateway.
package main

import (
	"fmt"
	"os"

	"github.com/taibuivan/bookdesk/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
