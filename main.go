package main

import (
	"github.com/deamwork/git-credential-msal/cmd"
)

var (
	Version = "dev"
)

func main() {
	cmd.Execute(Version)
}
