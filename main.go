package main

import "github.com/cockroachdb/stepcheck/cmd"

func main() {
	cmd.Execute()
}
