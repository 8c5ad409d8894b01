package cmd

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
	"github.com/deamwork/git-credential-msal/lib"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// global flags
var (
	backend    string
	debug      bool
	deviceCode bool
	insecure   bool
	version    string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "git-credential-msal",
	Short:         "git credential helper for Microsoft Entra ID SSO auth flows using MSAL",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(vers string) {
	version = vers
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func init() {
	backendsAvailable := []string{}
	for _, backendType := range keyring.AvailableBackends() {
		backendsAvailable = append(backendsAvailable, string(backendType))
	}
	RootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "", fmt.Sprintf("Secret backend to use %s", backendsAvailable))
	RootCmd.PersistentFlags().BoolVarP(&deviceCode, "device-code", "d", false, "Authenticate with the OAuth2 device authorization flow instead of a browser")
	RootCmd.PersistentFlags().BoolVarP(&insecure, "insecure", "i", false, "Allow plaintext token caching when no secret store is available")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func newHelper() *lib.Helper {
	return &lib.Helper{
		In:  os.Stdin,
		Out: os.Stdout,
		Options: lib.Options{
			DeviceCode: deviceCode,
			Insecure:   insecure,
			Backend:    backend,
		},
	}
}
