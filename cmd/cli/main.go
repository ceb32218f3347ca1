package main

import "coursehub/cmd/cli/command"

func main() {
	command.Execute()
}
