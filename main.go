package main

import "github.com/will-rowe/kmervec/cmd"

func main() {
	cmd.Execute()
}
