package main

import "github.com/deckhall/deckapi/cmd"

func main() {
	cmd.Execute()
}
