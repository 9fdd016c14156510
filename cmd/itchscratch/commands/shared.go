package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"itchscratch/cmd/itchscratch/globals"
	"itchscratch/cmd/itchscratch/utils"
	"itchscratch/lib/credstore"
	"itchscratch/lib/scrapers/itch/downloads"
	"itchscratch/lib/scrapers/itch/view"
	"itchscratch/lib/telemetry"
	"itchscratch/services/importer"

	"github.com/jedib0t/go-pretty/v6/table"
)

const promptAttempts = 3

// login signs in with a username and password and stores the session
// headers in the credential file.
func login(ctx context.Context, value *globals.Value, username, password string) error {
	client, release, err := value.NewClient(ctx, nil, false)
	if err != nil {
		return err
	}
	defer release()

	res, err := client.LoginUsernamePassword(ctx, username, password)
	if err != nil {
		return err
	}

	headers := credstore.NewHeaders(res.Cookies)
	if !headers.Validate() {
		return fmt.Errorf("login did not yield a usable session")
	}
	store, err := value.CredentialStore()
	if err != nil {
		return err
	}
	err = store.Save(headers)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "credentials stored", "path", store.Path)
	return nil
}

// resetDatabase starts over with an empty game table, local database files
// are deleted outright.
func resetDatabase(ctx context.Context, value *globals.Value) error {
	if !value.Config.Database.IsRemote() {
		err := value.Config.Database.Remove()
		if err != nil {
			return fmt.Errorf("remove database: %w", err)
		}
	}
	store, database, err := value.OpenStore()
	if err != nil {
		return err
	}
	defer database.Close()
	return store.Reset(ctx)
}

func runImport(ctx context.Context, value *globals.Value, opts importer.Options) (importer.Summary, error) {
	store, database, err := value.OpenStore()
	if err != nil {
		return importer.Summary{}, fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	err = store.EnsureSchema(ctx)
	if err != nil {
		return importer.Summary{}, err
	}

	client, release, err := value.NewClient(ctx, value.Credentials(ctx), true)
	if err != nil {
		return importer.Summary{}, err
	}
	defer release()

	if value.Telemetry.Enabled() {
		telemetry.InstrumentPerfStats(ctx, 5*time.Second)
	}

	start := time.Now()
	summary, err := importer.New(view.NewClient(client), store, opts).Run(ctx)
	if err != nil {
		return summary, err
	}
	slog.InfoContext(ctx, "import finished", "took", time.Since(start).Round(time.Millisecond))
	return summary, nil
}

func printSummary(summary importer.Summary) {
	if summary.Skipped {
		fmt.Printf("the database already has %d games, nothing was imported\n", summary.ExistingRows)
		return
	}
	t := utils.NewTable()
	t.SetTitle("Import")
	t.AppendHeader(table.Row{"Bundles", "Pages", "Games", "Inserted", "Insert failed", "Details failed"})
	t.AppendRow(table.Row{
		summary.Bundles,
		summary.Pages,
		summary.Games,
		summary.Inserted,
		summary.InsertFailed,
		summary.DetailsFailed,
	})
	t.Render()
}

type downloadParams struct {
	PageUrl string
	Key     string
	Dest    string
	All     bool
	// title of a single file to download, when neither this nor All is
	// set the user picks one
	File string
}

func download(ctx context.Context, value *globals.Value, params downloadParams) error {
	client, release, err := value.NewClient(ctx, value.Credentials(ctx), false)
	if err != nil {
		return err
	}
	defer release()

	dl := downloads.NewClient(client)
	page, err := dl.OpenPage(ctx, params.PageUrl, params.Key)
	if err != nil {
		return err
	}

	t := utils.NewTable()
	t.SetTitle(page.Url)
	t.AppendHeader(table.Row{"#", "File", "Size", "Upload"})
	for i, u := range page.Uploads {
		t.AppendRow(table.Row{i + 1, u.Title, u.FileSize, u.UploadId})
	}
	t.Render()

	if params.All {
		paths, err := dl.DownloadAll(ctx, page, params.Dest)
		for _, p := range paths {
			fmt.Println("saved", p)
		}
		return err
	}

	var upload downloads.Upload
	if params.File != "" {
		upload, err = page.Find(params.File)
		if err != nil {
			return err
		}
	} else {
		titles := make([]string, len(page.Uploads))
		for i, u := range page.Uploads {
			titles[i] = u.Title
		}
		idx, err := utils.Choose(os.Stdin, os.Stdout, "Which file should be downloaded?", titles, promptAttempts)
		if err != nil {
			return err
		}
		upload = page.Uploads[idx]
	}

	path, err := dl.Download(ctx, page, upload, params.Dest)
	if err != nil {
		return err
	}
	fmt.Println("saved", path)
	return nil
}

// credentialsPresent reports whether a readable credential file exists.
func credentialsPresent(value *globals.Value) bool {
	store, err := value.CredentialStore()
	if err != nil {
		return false
	}
	_, err = store.Fetch()
	return err == nil
}
