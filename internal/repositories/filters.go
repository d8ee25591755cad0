package repositories

// FilterOp names a comparison applied to a single field.
type FilterOp string

const (
	OpEqual FilterOp = "eq"
	OpGte   FilterOp = "gte"
	OpLte   FilterOp = "lte"
	OpLike  FilterOp = "like"
	OpIn    FilterOp = "in"
)

// Filter is one (field, operator, value) constraint. Field names are
// supplied by call sites, never by request input directly; handlers map
// query parameters onto whitelisted fields before building filters.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// FilterMap is an ordered set of constraints combined with AND semantics.
type FilterMap []Filter

// Where appends an equality constraint and returns the map for chaining.
func (f FilterMap) Where(field string, value any) FilterMap {
	return append(f, Filter{Field: field, Op: OpEqual, Value: value})
}

// WhereOp appends a constraint with an explicit operator.
func (f FilterMap) WhereOp(field string, op FilterOp, value any) FilterMap {
	return append(f, Filter{Field: field, Op: op, Value: value})
}

// Page is the requested slice of a result set.
type Page struct {
	Page  int
	Limit int
}

// Clamp normalizes the page request: page >= 1, limit in [1, maxLimit],
// defaulting to defaultLimit when unset.
func (p Page) Clamp(defaultLimit, maxLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Order names the sort key and direction. Keys are logical API names; each
// store maps them onto backend column names through its whitelist.
type Order struct {
	By   string
	Desc bool
}

// PageDescriptor is the pagination metadata returned alongside a listing.
// Derived, never stored.
type PageDescriptor struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPageDescriptor computes the descriptor for a filtered total.
func NewPageDescriptor(page Page, total int64) PageDescriptor {
	totalPages := 0
	if page.Limit > 0 {
		totalPages = int((total + int64(page.Limit) - 1) / int64(page.Limit))
	}
	return PageDescriptor{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
