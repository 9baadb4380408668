package main

import "github.com/bluecats/bluecats-loop-api-client/cmd"

func main() {
	cmd.Execute()
}
