package commands

import (
	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/lib/serviceutil"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download files from a game's download page.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		err := download(ctx, globals.Get(ctx), downloadParams{
			PageUrl: downloadUrl,
			Key:     downloadKey,
			Dest:    downloadDest,
			All:     downloadAll,
			File:    downloadFile,
		})
		if err != nil {
			serviceutil.Fatal("download failed", err)
		}
	},
}

var (
	downloadUrl  string
	downloadDest string
	downloadKey  string
	downloadAll  bool
	downloadFile string
)

func init() {
	downloadCmd.Flags().StringVar(&downloadUrl, "url", "", "download page url")
	downloadCmd.Flags().StringVar(&downloadDest, "dest", ".", "directory the files are written to")
	downloadCmd.Flags().StringVar(&downloadKey, "key", "", "download key, taken from the url when empty")
	downloadCmd.Flags().BoolVar(&downloadAll, "all", false, "download every file on the page")
	downloadCmd.Flags().StringVar(&downloadFile, "file", "", "title of the single file to download")
	downloadCmd.MarkFlagRequired("url")
	downloadCmd.MarkFlagsMutuallyExclusive("all", "file")
	rootCmd.AddCommand(downloadCmd)
}
