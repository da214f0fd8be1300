package domain

import "time"

// AnonymousAuthor is the only author label a post ever carries.
const AnonymousAuthor = "Anonymous"

// Post is a peer-support forum entry.
type Post struct {
	ID        string    `json:"id"        db:"id"`
	Author    string    `json:"author"    db:"author"`
	Content   string    `json:"content"   db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Report flags a post. At most one per (post, reporter).
type Report struct {
	PostID      string    `json:"postId"      db:"post_id"`
	ReporterUID string    `json:"reporterUid" db:"reporter_uid"`
	ReportedAt  time.Time `json:"reportedAt"  db:"reported_at"`
}
