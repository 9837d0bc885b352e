package main

import "github.com/authgate/authgate/cmd"

func main() {
	cmd.Execute()
}
