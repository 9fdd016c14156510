package gamestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itchscratch/lib/gamestore/db"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("itchscratch.lib.gamestore")

var ErrGameNotFound = errors.New("game not found")

// StorageError is returned by every Store method whose underlying query
// failed, `Title` is set for operations on a single game.
type StorageError struct {
	Op    string
	Title string
	Err   error
}

func (e *StorageError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("gamestore %s '%s': %s", e.Op, e.Title, e.Err.Error())
	}
	return fmt.Sprintf("gamestore %s: %s", e.Op, e.Err.Error())
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Game is a single persisted record, every field but ID is free text.
type Game struct {
	ID             int64
	Title          string
	Developer      string
	ImageURL       string
	HomePage       string
	Key            string
	DLPage         string
	FileCount      string
	Platforms      string
	Description    string
	Download       string
	Stars          string
	RatingCount    string
	Author         string
	Genre          string
	AverageSession string
	Languages      string
	Updated        string
	Published      string
	Status         string
	Inputs         string
	Accessibility  string
	Tags           string
	ReleaseDate    string
	Other          string
}

// Fields returns the column names and values of the game in table order.
func (g Game) Fields() ([]string, []string) {
	return Columns, []string{
		fmt.Sprint(g.ID), g.Title, g.Developer, g.ImageURL, g.HomePage, g.Key, g.DLPage,
		g.FileCount, g.Platforms, g.Description, g.Download, g.Stars, g.RatingCount,
		g.Author, g.Genre, g.AverageSession, g.Languages, g.Updated, g.Published,
		g.Status, g.Inputs, g.Accessibility, g.Tags, g.ReleaseDate, g.Other,
	}
}

var Columns = []string{
	"id", "Title", "Developer", "ImageURL", "HomePage", "Key", "DLPage", "FileCount",
	"Platforms", "Description", "Download", "Stars", "RatingCount", "Author", "Genre",
	"AverageSession", "Languages", "Updated", "Published", "Status", "Inputs",
	"Accessibility", "Tags", "ReleaseDate", "Other",
}

func text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func gameFromRow(row db.Game) Game {
	return Game{
		ID:             row.ID,
		Title:          row.Title.String,
		Developer:      row.Developer.String,
		ImageURL:       row.ImageURL.String,
		HomePage:       row.HomePage.String,
		Key:            row.Key.String,
		DLPage:         row.DLPage.String,
		FileCount:      row.FileCount.String,
		Platforms:      row.Platforms.String,
		Description:    row.Description.String,
		Download:       row.Download.String,
		Stars:          row.Stars.String,
		RatingCount:    row.RatingCount.String,
		Author:         row.Author.String,
		Genre:          row.Genre.String,
		AverageSession: row.AverageSession.String,
		Languages:      row.Languages.String,
		Updated:        row.Updated.String,
		Published:      row.Published.String,
		Status:         row.Status.String,
		Inputs:         row.Inputs.String,
		Accessibility:  row.Accessibility.String,
		Tags:           row.Tags.String,
		ReleaseDate:    row.ReleaseDate.String,
		Other:          row.Other.String,
	}
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// EnsureSchema creates the Game table if it does not exist yet.
func (s Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, db.Schema)
	if err != nil {
		return &StorageError{Op: "create table", Err: err}
	}
	return nil
}

func (s Store) TableExists(ctx context.Context) (bool, error) {
	count, err := s.qry.TableExists(ctx)
	if err != nil {
		return false, &StorageError{Op: "table exists", Err: err}
	}
	return count > 0, nil
}

// Reset drops the Game table and creates it again, it is the only way to
// let an import run against a database that already has rows.
func (s Store) Reset(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Reset")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return &StorageError{Op: "reset", Err: err}
	}
	defer tx.Rollback()

	err = s.qry.WithTx(tx).DropGameTable(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to drop table")
		return &StorageError{Op: "reset", Err: err}
	}
	_, err = tx.ExecContext(ctx, db.Schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create table")
		return &StorageError{Op: "reset", Err: err}
	}
	err = tx.Commit()
	if err != nil {
		return &StorageError{Op: "reset", Err: err}
	}

	slog.InfoContext(ctx, "game table recreated", "table", db.Table)
	return nil
}

func (s Store) CountRows(ctx context.Context) (int64, error) {
	count, err := s.qry.CountGames(ctx)
	if err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return count, nil
}

// Insert always appends a new row, titles are not deduplicated.
func (s Store) Insert(ctx context.Context, game Game) (int64, error) {
	ctx, span := tracer.Start(ctx, "Insert")
	defer span.End()
	span.SetAttributes(attribute.String("title", game.Title))

	id, err := s.qry.CreateGame(ctx, db.CreateGameParams{
		Title:          text(game.Title),
		Developer:      text(game.Developer),
		ImageURL:       text(game.ImageURL),
		HomePage:       text(game.HomePage),
		Key:            text(game.Key),
		DLPage:         text(game.DLPage),
		FileCount:      text(game.FileCount),
		Platforms:      text(game.Platforms),
		Description:    text(game.Description),
		Download:       text(game.Download),
		Stars:          text(game.Stars),
		RatingCount:    text(game.RatingCount),
		Author:         text(game.Author),
		Genre:          text(game.Genre),
		AverageSession: text(game.AverageSession),
		Languages:      text(game.Languages),
		Updated:        text(game.Updated),
		Published:      text(game.Published),
		Status:         text(game.Status),
		Inputs:         text(game.Inputs),
		Accessibility:  text(game.Accessibility),
		Tags:           text(game.Tags),
		ReleaseDate:    text(game.ReleaseDate),
		Other:          text(game.Other),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert game")
		return 0, &StorageError{Op: "insert", Title: game.Title, Err: err}
	}
	return id, nil
}

// GetByTitle looks a game up by title ignoring case, when a title was
// imported more than once the earliest row wins.
func (s Store) GetByTitle(ctx context.Context, title string) (Game, error) {
	row, err := s.qry.GetGameByTitle(ctx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return Game{}, ErrGameNotFound
	}
	if err != nil {
		return Game{}, &StorageError{Op: "get by title", Title: title, Err: err}
	}
	return gameFromRow(row), nil
}

// ByGenre returns every game whose genre contains `genre`.
func (s Store) ByGenre(ctx context.Context, genre string) ([]Game, error) {
	rows, err := s.qry.GetGamesByGenre(ctx, text(genre))
	if err != nil {
		return nil, &StorageError{Op: "get by genre", Err: err}
	}
	games := make([]Game, len(rows))
	for i, r := range rows {
		games[i] = gameFromRow(r)
	}
	return games, nil
}

func (s Store) Titles(ctx context.Context) ([]string, error) {
	rows, err := s.qry.GetAllTitles(ctx)
	if err != nil {
		return nil, &StorageError{Op: "titles", Err: err}
	}
	titles := make([]string, 0, len(rows))
	for _, r := range rows {
		titles = append(titles, r.String)
	}
	return titles, nil
}

type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// Query runs an arbitrary statement and renders every value as a string,
// NULL becomes the empty string.
func (s Store) Query(ctx context.Context, statement string) (QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return QueryResult{}, &StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return QueryResult{}, &StorageError{Op: "query", Err: err}
	}

	result := QueryResult{Columns: columns}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		err := rows.Scan(pointers...)
		if err != nil {
			return QueryResult{}, &StorageError{Op: "query", Err: err}
		}

		row := make([]string, len(columns))
		for i, v := range values {
			switch v := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, &StorageError{Op: "query", Err: err}
	}

	return result, nil
}
