package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any listing can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the computed pagination envelope returned with every list.
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// Normalize clamps page and limit to sane bounds.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	n := Normalize(p)
	return (n.Page - 1) * n.Limit
}

// BuildMeta computes page counts and next/prev flags for a total row count.
func BuildMeta(p Params, total int64) Meta {
	n := Normalize(p)
	pages := int((total + int64(n.Limit) - 1) / int64(n.Limit))
	if pages < 1 && total == 0 {
		pages = 0
	}
	return Meta{
		Page:    n.Page,
		Limit:   n.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: n.Page < pages,
		HasPrev: n.Page > 1 && total > 0,
	}
}
