package main

import "github.com/norun9/cartservice/cmd"

func main() {
	cmd.Execute()
}
