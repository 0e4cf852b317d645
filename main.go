package main

import (
	"os"

	"github.com/conneroisu/pagebuild/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
