package main

import "github.com/yarlson/taskline/cmd"

func main() {
	cmd.Execute()
}
