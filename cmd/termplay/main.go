package main

import "github.com/blacktop/go-termplay/cmd/termplay/cmd"

func main() {
	cmd.Execute()
}
