package database

import (
	"context"
	"fmt"
)

// Store composes the repositories behind operations that each run in exactly
// one transaction. Creation paths resolve unique-constraint conflicts by
// re-reading the pre-existing row, never by surfacing an error: under
// concurrent requests racing to create the same feed or subscription, losing
// the race means someone else already did the work.
type Store struct {
	db            *DB
	feeds         FeedRepository
	entries       EntryRepository
	users         UserRepository
	categories    CategoryRepository
	subscriptions SubscriptionRepository
	userEntries   UserEntryRepository
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetFeedByID(ctx context.Context, id int64) (*Feed, error) {
	return s.feeds.GetByID(ctx, s.db, id)
}

func (s *Store) GetFeedByLink(ctx context.Context, feedLink string) (*Feed, error) {
	return s.feeds.GetByFeedLink(ctx, s.db, feedLink)
}

func (s *Store) ListFeeds(ctx context.Context) ([]Feed, error) {
	return s.feeds.List(ctx, s.db)
}

func (s *Store) ListEntries(ctx context.Context, feedID int64) ([]Entry, error) {
	return s.entries.ListByFeed(ctx, s.db, feedID)
}

func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	return s.entries.GetByID(ctx, s.db, id)
}

// CreateFeed persists a feed and all its entries in one commit. When another
// writer wins the feed_link race, the existing feed is returned and the
// entries are discarded.
func (s *Store) CreateFeed(ctx context.Context, feed Feed, entries []Entry) (*Feed, error) {
	var created *Feed
	err := s.db.WithTx(ctx, func(q Querier) error {
		id, err := s.feeds.Insert(ctx, q, feed)
		if err != nil {
			return err
		}
		if id == 0 {
			created, err = s.feeds.GetByFeedLink(ctx, q, feed.FeedLink)
			return err
		}
		if err := s.entries.InsertBatch(ctx, q, id, entries); err != nil {
			return err
		}
		created, err = s.feeds.GetByID(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("feed %q disappeared during creation", feed.FeedLink)
	}
	return created, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, s.db, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx, s.db)
}

// CreateUser inserts a user, returning the existing record when the email is
// already registered.
func (s *Store) CreateUser(ctx context.Context, email string) (*User, error) {
	id, err := s.users.Insert(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return s.users.GetByEmail(ctx, s.db, email)
	}
	return s.users.GetByID(ctx, s.db, id)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.categories.GetByID(ctx, s.db, id)
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx, s.db)
}

func (s *Store) GetSubscription(ctx context.Context, id int64) (*Subscription, error) {
	return s.subscriptions.GetByID(ctx, s.db, id)
}

func (s *Store) GetSubscriptionByUserAndFeed(ctx context.Context, userID, feedID int64) (*Subscription, error) {
	return s.subscriptions.GetByUserAndFeed(ctx, s.db, userID, feedID)
}

func (s *Store) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	return s.subscriptions.List(ctx, s.db)
}

// CreateSubscription creates the subscription, the on-demand category, and
// one unread marker per current entry in a single commit. A (user, feed)
// conflict resolves to the already-existing subscription with no side
// effects.
func (s *Store) CreateSubscription(ctx context.Context, userID, feedID int64, category *string, entryIDs []int64) (*Subscription, error) {
	var created *Subscription
	err := s.db.WithTx(ctx, func(q Querier) error {
		var categoryID *int64
		if category != nil && *category != "" {
			id, err := s.categories.GetOrCreate(ctx, q, userID, *category)
			if err != nil {
				return err
			}
			categoryID = &id
		}

		id, err := s.subscriptions.Insert(ctx, q, userID, feedID, categoryID)
		if err != nil {
			return err
		}
		if id == 0 {
			created, err = s.subscriptions.GetByUserAndFeed(ctx, q, userID, feedID)
			return err
		}

		if err := s.userEntries.InsertBatch(ctx, q, userID, id, entryIDs); err != nil {
			return err
		}
		created, err = s.subscriptions.GetByID(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) DeleteSubscription(ctx context.Context, id int64) (bool, error) {
	return s.subscriptions.Delete(ctx, s.db, id)
}

func (s *Store) GetUserEntry(ctx context.Context, id int64) (*UserEntry, error) {
	return s.userEntries.GetByID(ctx, s.db, id)
}

func (s *Store) ListUserEntries(ctx context.Context, subscriptionID int64) ([]UserEntry, error) {
	return s.userEntries.ListBySubscription(ctx, s.db, subscriptionID)
}

func (s *Store) MarkEntryRead(ctx context.Context, id, userID int64) (*UserEntry, error) {
	return s.userEntries.MarkRead(ctx, s.db, id, userID)
}
