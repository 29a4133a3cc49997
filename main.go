package main

import (
	"cmacbench/cmd"
)

func main() {
	cmd.Execute()
}
