package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/cmd/itchscratch/utils"
	"itchscratch/lib/credstore"
	"itchscratch/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the stored session credentials.",
	Long: `Manage the stored session credentials.

--store takes a json object of cookies copied from a browser, for example
'{"itchio_token": "...", "itchio": "..."}'.`,
	Run: func(cmd *cobra.Command, args []string) {
		value := globals.Get(cmd.Context())
		store, err := value.CredentialStore()
		if err != nil {
			serviceutil.Fatal("invalid credentials key", err)
		}

		switch {
		case credsStore != "":
			var cookies map[string]string
			err := json.Unmarshal([]byte(credsStore), &cookies)
			if err != nil {
				serviceutil.Fatal("cookies are not a json object of strings", err)
			}
			headers := credstore.NewHeaders(cookies)
			if !headers.Validate() {
				fmt.Println("warning: itchio_token or itchio cookie is missing")
			}
			err = store.Save(headers)
			if err != nil {
				serviceutil.Fatal("failed to store credentials", err)
			}
			fmt.Println("stored credentials in", store.Path)

		case credsFetch:
			headers, err := store.Fetch()
			if errors.Is(err, credstore.ErrNotFound) {
				fmt.Println("no credentials stored")
				return
			}
			if err != nil {
				serviceutil.Fatal("failed to read credentials", err)
			}
			names := make([]string, 0, len(headers))
			for name := range headers {
				names = append(names, name)
			}
			sort.Strings(names)

			t := utils.NewTable()
			t.SetTitle(store.Path)
			t.AppendHeader(table.Row{"Header", "Value"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
			for _, name := range names {
				t.AppendRow(table.Row{name, headers[name]})
			}
			t.Render()
			if !headers.Validate() {
				fmt.Println("warning: credentials are missing a session cookie")
			}

		case credsClear:
			err := store.Clear()
			if errors.Is(err, credstore.ErrNotFound) {
				fmt.Println("no credentials stored")
				return
			}
			if err != nil {
				serviceutil.Fatal("failed to clear credentials", err)
			}
			fmt.Println("cleared", store.Path)

		default:
			cmd.Help()
		}
	},
}

var (
	credsStore string
	credsFetch bool
	credsClear bool
)

func init() {
	credsCmd.Flags().StringVar(&credsStore, "store", "", "json object of session cookies to store")
	credsCmd.Flags().BoolVar(&credsFetch, "fetch", false, "print the stored headers")
	credsCmd.Flags().BoolVar(&credsClear, "clear", false, "delete the credential file")
	credsCmd.MarkFlagsMutuallyExclusive("store", "fetch", "clear")
	rootCmd.AddCommand(credsCmd)
}
