package main

import (
	"github.com/superpiccell/spen-minter/server/cmd"
)

func main() {
	cmd.Execute()
}
