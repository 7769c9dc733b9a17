package main

import "github.com/podbrief/podbrief-api/cmd"

func main() {
	cmd.Execute()
}
