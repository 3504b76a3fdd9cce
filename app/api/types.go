package api

import "feeder/app/database"

// feedResponse is a feed together with its entries, the shape most callers
// want when adding or inspecting a feed.
type feedResponse struct {
	database.Feed
	Entries []database.Entry `json:"entries"`
}
