package main

import "github.com/lunemec/fuel-accountant/cmd"

func main() {
	cmd.Execute()
}
