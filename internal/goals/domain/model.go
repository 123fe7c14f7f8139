package domain

import "time"

// Vision lifecycle statuses.
const (
	StatusActive   = "active"
	StatusAchieved = "achieved"
	StatusArchived = "archived"
)

// Vision visibility.
const (
	VisibilityPrivate = "private"
	VisibilityShared  = "shared"
)

// Metric kinds. A primary metric is the quantified result of a vision
// (OKR); a supporting metric is an input indicator (KPI).
const (
	KindPrimary    = "primary"
	KindSupporting = "supporting"
)

// Vision is a user-owned top-level goal and the root of a goal tree.
type Vision struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"-"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Visibility string    `json:"visibility"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Metric is a quantified result under a vision. Direction is implied:
// TargetValue >= StartValue means higher is better.
type Metric struct {
	ID            string                   `json:"id"`
	VisionID      string                   `json:"-"`
	Kind          string                   `json:"kind"`
	Label         string                   `json:"label"`
	StartValue    float64                  `json:"start_value"`
	TargetValue   float64                  `json:"target_value"`
	StartYear     int                      `json:"start_year"`
	StartMonth    int                      `json:"start_month"`
	DeadlineYear  int                      `json:"deadline_year"`
	DeadlineMonth int                      `json:"deadline_month"`
	Series        []MonthlyProjectionPoint `json:"series"`
	TribeIDs      []string                 `json:"tribe_ids"`
	SortOrder     int                      `json:"sort_order"`
}

// MonthlyProjectionPoint is one cell of a metric's monthly series.
// Target is recomputed on every merge; Actual and Note are recorded facts
// and must survive regeneration.
type MonthlyProjectionPoint struct {
	Month  string   `json:"month"`
	Year   int      `json:"year"`
	Target *float64 `json:"target"`
	Actual *float64 `json:"actual"`
	Note   string   `json:"note,omitempty"`
}

// MonthPatch is a single-cell edit of one projection point. Nil fields
// are left untouched.
type MonthPatch struct {
	Target *float64 `json:"target"`
	Actual *float64 `json:"actual"`
	Note   *string  `json:"note"`
}

// ActionItem is a weekly task. It belongs to a vision through the metric
// it is linked to (the vision's first metric by convention).
type ActionItem struct {
	ID        string    `json:"id"`
	MetricID  string    `json:"-"`
	Title     string    `json:"title"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	Done      bool      `json:"done"`
	DueDate   time.Time `json:"due_date"`
	SortOrder int       `json:"sort_order"`
}

// ActionGroup carries the weekly action items of a vision tree.
type ActionGroup struct {
	Items []ActionItem `json:"items"`
}

// VisionTree is a vision with its full decomposition, the unit the merge
// engine accepts and returns.
type VisionTree struct {
	Vision
	Okrs    []Metric    `json:"okrs"`
	Kpis    []Metric    `json:"kpis"`
	Actions ActionGroup `json:"actions"`
}

// Metrics returns primary metrics followed by supporting ones, in
// submitted order.
func (t *VisionTree) Metrics() []Metric {
	out := make([]Metric, 0, len(t.Okrs)+len(t.Kpis))
	out = append(out, t.Okrs...)
	out = append(out, t.Kpis...)
	return out
}
