package commands

import (
	"fmt"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/lib/serviceutil"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to itch.io and store the session credentials.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		err := login(ctx, globals.Get(ctx), loginUsername, loginPassword)
		if err != nil {
			serviceutil.Fatal("login failed", err)
		}
		fmt.Println("logged in")
	},
}

var (
	loginUsername string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "itch.io username or email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "itch.io password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
