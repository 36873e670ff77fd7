package main

import "github.com/KaramelBytes/moltools-cli/cmd"

func main() {
	cmd.Execute()
}
