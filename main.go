package main

import "mccwk.com/shortener/cmd"

func main() {
	cmd.Execute()
}
