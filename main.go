package main

import "github.com/kozaktomas/outfit-matcher/cmd"

func main() {
	cmd.Execute()
}
