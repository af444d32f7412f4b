package main

import "github.com/bascanada/logexplorer/cmd"

func main() {
	cmd.Execute()
}
