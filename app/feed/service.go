// Package feed implements the ingestion pipeline: fetch-or-reuse of feeds,
// subscriptions with per-user read state, and OPML batch import. Persistence
// side effects happen only here; the parser and fetch layers stay pure.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/lo"

	"feeder/app/database"
	"feeder/app/opml"
	"feeder/app/parser"
	"feeder/app/xmldoc"
)

// Storage is the persistence surface the service drives. Every Create method
// commits once per logical operation and resolves duplicate-creation
// conflicts by returning the pre-existing record.
type Storage interface {
	GetFeedByID(ctx context.Context, id int64) (*database.Feed, error)
	GetFeedByLink(ctx context.Context, feedLink string) (*database.Feed, error)
	ListFeeds(ctx context.Context) ([]database.Feed, error)
	ListEntries(ctx context.Context, feedID int64) ([]database.Entry, error)
	GetEntry(ctx context.Context, id int64) (*database.Entry, error)
	CreateFeed(ctx context.Context, feed database.Feed, entries []database.Entry) (*database.Feed, error)

	GetUser(ctx context.Context, id int64) (*database.User, error)
	ListUsers(ctx context.Context) ([]database.User, error)
	CreateUser(ctx context.Context, email string) (*database.User, error)

	GetCategory(ctx context.Context, id int64) (*database.Category, error)
	ListCategories(ctx context.Context) ([]database.Category, error)

	GetSubscription(ctx context.Context, id int64) (*database.Subscription, error)
	GetSubscriptionByUserAndFeed(ctx context.Context, userID, feedID int64) (*database.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]database.Subscription, error)
	CreateSubscription(ctx context.Context, userID, feedID int64, category *string, entryIDs []int64) (*database.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) (bool, error)

	GetUserEntry(ctx context.Context, id int64) (*database.UserEntry, error)
	ListUserEntries(ctx context.Context, subscriptionID int64) ([]database.UserEntry, error)
	MarkEntryRead(ctx context.Context, id, userID int64) (*database.UserEntry, error)
}

var _ Storage = (*database.Store)(nil)

// Fetcher retrieves a document and reports the final post-redirect URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

type Service struct {
	store   Storage
	fetcher Fetcher
}

func NewService(store Storage, fetcher Fetcher) *Service {
	return &Service{store: store, fetcher: fetcher}
}

// FetchFeed resolves url to a feed. When a feed with that feed_link is
// already stored it is returned without any network call (the dedup fast
// path). Otherwise the document is fetched, parsed, and normalized into
// unpersisted rows with isNew true. A document carrying no feed-level data
// yields (nil, nil, false, nil): not a feed, deliberately not an error.
// Transport, format, and malformed-content failures all propagate unchanged
// so broken feeds are visibly rejected rather than silently dropped.
func (s *Service) FetchFeed(ctx context.Context, url string) (*database.Feed, []database.Entry, bool, error) {
	existing, err := s.store.GetFeedByLink(ctx, url)
	if err != nil {
		return nil, nil, false, err
	}
	if existing != nil {
		entries, err := s.store.ListEntries(ctx, existing.ID)
		if err != nil {
			return nil, nil, false, err
		}
		return existing, entries, false, nil
	}

	body, finalURL, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return nil, nil, false, err
	}

	doc, err := xmldoc.Parse(body)
	if err != nil {
		return nil, nil, false, err
	}

	descriptor, parsed, err := parser.Parse(doc)
	if err != nil {
		return nil, nil, false, err
	}

	if descriptor.IsZero() {
		slog.Debug("Document has no feed data", "url", url)
		return nil, nil, false, nil
	}
	descriptor.Normalize(finalURL)

	feed := database.Feed{
		Title:    descriptor.Title,
		SiteLink: descriptor.SiteLink,
		FeedLink: descriptor.FeedLink,
	}
	entries := lo.Map(parsed, func(e parser.Entry, _ int) database.Entry {
		return database.Entry{
			Title:     e.Title,
			Link:      e.Link,
			Summary:   e.Summary,
			Content:   e.Content,
			Published: e.Published,
		}
	})
	return &feed, entries, true, nil
}

// AddFeed fetches url if needed and persists the feed with all its entries in
// one commit. Calling it twice with the same URL returns the same stored feed
// without duplicating rows.
func (s *Service) AddFeed(ctx context.Context, url string) (*database.Feed, error) {
	feed, entries, isNew, err := s.FetchFeed(ctx, url)
	if err != nil || feed == nil {
		return nil, err
	}
	if !isNew {
		return feed, nil
	}

	created, err := s.store.CreateFeed(ctx, *feed, entries)
	if err != nil {
		return nil, err
	}
	slog.Info("Feed added", "feed_link", created.FeedLink, "entries", len(entries))
	return created, nil
}

// AddSubscription subscribes userID to the feed at url, placing it in the
// named category when one is given. An unknown user or a non-feed URL yields
// (nil, nil); an existing (user, feed) subscription is returned unchanged
// with no side effects.
func (s *Service) AddSubscription(ctx context.Context, url string, userID int64, category *string) (*database.Subscription, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	feed, entries, isNew, err := s.FetchFeed(ctx, url)
	if err != nil || feed == nil {
		return nil, err
	}

	if isNew {
		feed, err = s.store.CreateFeed(ctx, *feed, entries)
		if err != nil {
			return nil, err
		}
		// Re-read to pick up the assigned entry ids (or, after losing a
		// creation race, the winner's entries).
		entries, err = s.store.ListEntries(ctx, feed.ID)
		if err != nil {
			return nil, err
		}
	}

	existing, err := s.store.GetSubscriptionByUserAndFeed(ctx, userID, feed.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	entryIDs := lo.Map(entries, func(e database.Entry, _ int) int64 { return e.ID })
	sub, err := s.store.CreateSubscription(ctx, userID, feed.ID, category, entryIDs)
	if err != nil {
		return nil, err
	}
	slog.Info("Subscription added", "user", userID, "feed", feed.FeedLink)
	return sub, nil
}

// MarkAsRead marks the user entry matching both id and userID as read,
// returning nil when no such pair exists.
func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) (*database.UserEntry, error) {
	return s.store.MarkEntryRead(ctx, id, userID)
}

// DeleteSubscription removes a subscription, reporting whether it existed.
func (s *Service) DeleteSubscription(ctx context.Context, id int64) (bool, error) {
	return s.store.DeleteSubscription(ctx, id)
}

// ImportOPML walks a category/feed outline document and subscribes userID to
// every feed it lists, sequentially. A feed URL appearing under several
// categories is fetched and subscribed once per import run. It returns the
// number of feed outlines processed.
func (s *Service) ImportOPML(ctx context.Context, r io.Reader, userID int64) (int, error) {
	doc, err := opml.Parse(r)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{})
	imported := 0

	subscribe := func(url string, category *string) error {
		if _, ok := seen[url]; ok {
			return nil
		}
		seen[url] = struct{}{}
		if _, err := s.AddSubscription(ctx, url, userID, category); err != nil {
			return fmt.Errorf("failed to import %s: %w", url, err)
		}
		imported++
		return nil
	}

	for _, section := range doc.Body.Outlines {
		if section.XMLURL != "" {
			// Uncategorized feed at the top level.
			if err := subscribe(section.XMLURL, nil); err != nil {
				return imported, err
			}
			continue
		}

		name := section.Text
		var category *string
		if name != "" {
			category = &name
		}
		for _, outline := range section.Outlines {
			if outline.XMLURL == "" {
				continue
			}
			if err := subscribe(outline.XMLURL, category); err != nil {
				return imported, err
			}
		}
	}

	slog.Info("OPML import finished", "user", userID, "feeds", imported)
	return imported, nil
}

// Lookup passthroughs for the transport layer.

func (s *Service) GetFeed(ctx context.Context, id int64) (*database.Feed, error) {
	return s.store.GetFeedByID(ctx, id)
}

func (s *Service) ListFeeds(ctx context.Context) ([]database.Feed, error) {
	return s.store.ListFeeds(ctx)
}

func (s *Service) ListEntries(ctx context.Context, feedID int64) ([]database.Entry, error) {
	return s.store.ListEntries(ctx, feedID)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*database.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]database.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) CreateUser(ctx context.Context, email string) (*database.User, error) {
	return s.store.CreateUser(ctx, email)
}

func (s *Service) GetSubscription(ctx context.Context, id int64) (*database.Subscription, error) {
	return s.store.GetSubscription(ctx, id)
}

func (s *Service) ListSubscriptions(ctx context.Context) ([]database.Subscription, error) {
	return s.store.ListSubscriptions(ctx)
}

func (s *Service) ListCategories(ctx context.Context) ([]database.Category, error) {
	return s.store.ListCategories(ctx)
}
