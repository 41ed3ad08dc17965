package main

import "github.com/sw33tLie/tagscope/cmd"

func main() {
	cmd.Execute()
}
