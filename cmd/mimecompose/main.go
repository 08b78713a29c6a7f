package main

import (
	"github.com/spf13/cobra"

	"github.com/bead-go/email/cmd/mimecompose/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
