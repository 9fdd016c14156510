package importer

import (
	"strings"

	"itchscratch/lib/gamestore"
	"itchscratch/lib/scrapers/itch/view"

	"dario.cat/mergo"
)

func listingRecord(listing view.ListingGame) gamestore.Game {
	return gamestore.Game{
		Title:       listing.Title,
		Developer:   listing.Developer,
		ImageURL:    listing.ImageURL,
		HomePage:    listing.HomePage,
		Key:         listing.Key,
		DLPage:      listing.DLPage,
		FileCount:   listing.FileCount,
		Platforms:   strings.Join(listing.Platforms, ", "),
		Description: listing.Description,
		Download:    listing.Download,
	}
}

func detailRecord(details view.GameDetails) gamestore.Game {
	return gamestore.Game{
		Stars:          details.Stars,
		RatingCount:    details.RatingCount,
		Author:         details.Author,
		Genre:          details.Genre,
		AverageSession: details.AverageSession,
		Languages:      details.Languages,
		Updated:        details.Updated,
		Published:      details.Published,
		Status:         details.Status,
		Inputs:         details.Inputs,
		Accessibility:  details.Accessibility,
		Tags:           details.Tags,
		ReleaseDate:    details.ReleaseDate,
		Other:          details.Other,
	}
}

// fillEmpty copies every field of `from` into `into` where `into` is
// still empty.
func fillEmpty(into, from gamestore.Game) gamestore.Game {
	// only fails for non struct arguments
	_ = mergo.Merge(&into, from)
	return into
}

// MergeGame combines a listing row with its game page into the record that
// gets stored. Listing fields win, details only fill fields that are still
// empty. Unclaimed games always point their home page at the listing link.
func MergeGame(listing view.ListingGame, details view.GameDetails) gamestore.Game {
	record := fillEmpty(listingRecord(listing), detailRecord(details))

	if record.Key == view.Unclaimed {
		record.HomePage = listing.Link
		record.DLPage = view.Unclaimed
	}
	return record
}
