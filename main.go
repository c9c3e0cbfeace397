package main

import "github.com/user/touch-ref-logger/cmd"

func main() {
	cmd.Execute()
}
