package main

import "github.com/rnwolfe/triage/cmd"

func main() {
	cmd.Execute()
}
