package main

import "epsconv/cmd/epsconv/cmd"

func main() {
	cmd.Execute()
}
