package main

import "github/chapool/go-zkwallet/cmd"

func main() {
	cmd.Execute()
}
