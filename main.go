package main

import "github.com/repexport/repexport/cmd"

func main() {
	cmd.Execute()
}
