package valueobject

// Page is the client-side pagination contract shared by every list endpoint:
// requests carry page/limit, responses return items plus these counters.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// NewPageRequest clamps raw query values into a valid page/limit pair.
func NewPageRequest(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}
