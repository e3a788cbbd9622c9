package main

import "lootdex/cmd"

func main() {
	cmd.Execute()
}
