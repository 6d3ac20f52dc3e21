package main

import "github.com/mcpdeck/mcpdeck/cmd"

func main() {
	cmd.Execute()
}
