package models

// Comment is a social media comment fetched for an instagram or tiktok draw.
// Username is the author identity used for de-duplication.
type Comment struct {
	ID       string `bson:"id" json:"id"`
	Text     string `bson:"text" json:"text"`
	URL      string `bson:"url,omitempty" json:"url,omitempty"`
	Username string `bson:"username" json:"username"`
	UserID   string `bson:"userId,omitempty" json:"userid,omitempty"`
	Userpic  string `bson:"userpic" json:"userpic"`
}
