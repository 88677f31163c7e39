package main

import "nathanbeddoewebdev/safecore/cmd"

func main() {
	cmd.Execute()
}
