package main

import "github.com/cmmoran/zodanno/cmd"

func main() {
	cmd.Execute()
}
