package main

import "github.com/lepinkainen/ankideck/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
