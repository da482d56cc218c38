package main

import "github.com/liminalcash/nimchat/cmd"

func main() {
	cmd.Execute()
}
