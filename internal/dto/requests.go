package dto

// RegisterRequest creates a new account. Nickname and email uniqueness is
// probed by the caller through the check endpoints before registering.
type RegisterRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest authenticates by email (identifier containing "@") or nickname.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LabelRequest is a client-provided semantic label; the stored row wins when
// the Wikidata ID already exists.
type LabelRequest struct {
	WikidataID    int64    `json:"wikidata_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	RelatedLabels []string `json:"related_labels"`
}

// PostRequest is the JSON part of a multipart post-creation request; the
// media files travel as separate parts.
type PostRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Weight      float64        `json:"weight"`
	Colors      []string       `json:"colors"`
	Shapes      []string       `json:"shapes"`
	Materials   []string       `json:"materials"`
	SizeX       float64        `json:"size_x"`
	SizeY       float64        `json:"size_y"`
	SizeZ       float64        `json:"size_z"`
	Labels      []LabelRequest `json:"labels"`
}

// CommentRequest creates a comment on a post.
type CommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
	Type     string `json:"type"`
}

// UpdateProfileRequest mutates the bio only.
type UpdateProfileRequest struct {
	Bio string `json:"bio"`
}
