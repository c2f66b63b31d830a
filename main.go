package main

import "notebookagent/cmd"

func main() {
	cmd.Execute()
}
