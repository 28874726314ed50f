package main

import (
	"verve/cmd"
)

func main() {
	cmd.Execute()
}
