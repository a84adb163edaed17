package main

import "vramcounter/cmd"

func main() {
	cmd.Execute()
}
