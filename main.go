// ./main.go
package main

import (
	"github.com/taskwizard/taskwizard/cmd"
)

// main is the entry point for the taskwizard CLI application.
func main() {
	cmd.Execute()
}
