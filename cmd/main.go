package main

import (
	cmd "github.com/kerbaras/ipofetch/cmd/ipofetch"
)

func main() {
	cmd.Execute()
}
