package database

import "time"

// Feed is a stored syndication source. Feeds are global, shared across users,
// and identified by their canonical fetch URL (feed_link, unique).
type Feed struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	SiteLink  string    `db:"site_link" json:"site_link"`
	FeedLink  string    `db:"feed_link" json:"feed_link"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Entry is one stored article. Entries belong to exactly one feed and are
// append-only: a re-fetch adds new rows, it never reconciles existing ones.
type Entry struct {
	ID        int64      `db:"id" json:"id"`
	FeedID    int64      `db:"feed_id" json:"feed_id"`
	Title     string     `db:"title" json:"title"`
	Link      string     `db:"link" json:"link"`
	Summary   string     `db:"summary" json:"summary"`
	Content   string     `db:"content" json:"content"`
	Published *time.Time `db:"published" json:"published"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category is a user-owned grouping, looked up by (user_id, name) and created
// on demand the first time a subscription names it.
type Category struct {
	ID     int64  `db:"id" json:"id"`
	UserID int64  `db:"user_id" json:"user_id"`
	Name   string `db:"name" json:"name"`
}

// Subscription links a user to a feed, optionally inside one of the user's
// categories. (user_id, feed_id) is unique.
type Subscription struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	FeedID     int64     `db:"feed_id" json:"feed_id"`
	CategoryID *int64    `db:"category_id" json:"category_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// UserEntry is a per-user read marker over one shared entry, created unread
// in bulk when the subscription is created.
type UserEntry struct {
	ID             int64 `db:"id" json:"id"`
	UserID         int64 `db:"user_id" json:"user_id"`
	SubscriptionID int64 `db:"subscription_id" json:"subscription_id"`
	EntryID        int64 `db:"entry_id" json:"entry_id"`
	Read           bool  `db:"read" json:"read"`
}
