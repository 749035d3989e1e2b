package main

import "github.com/lukman83/autolot/cmd"

func main() {
	cmd.Execute()
}
