package main

import "github.com/sherlingdev/flare-sub001/cmd"

func main() {
	cmd.Execute()
}
