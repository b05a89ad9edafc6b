package main

import "linkscout/cmd"

func main() {
	cmd.Execute()
}
