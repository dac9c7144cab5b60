package main

import (
	"fmt"
	"os"
)

func main() {
	root, c := newRootCommand()
	err := root.Execute()
	if cerr := c.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
