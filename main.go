package main

import "jsfinder/cmd"

func main() {
	cmd.Execute()
}
