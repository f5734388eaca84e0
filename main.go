package main

import "adisyo-api/commands"

func main() {
	commands.Execute()
}
