package area

import "context"

// Repository defines persistence operations for area ratings.
type Repository interface {
	Save(ctx context.Context, rating *AreaRating) error
	Summaries(ctx context.Context) ([]Summary, error)
	FindSummary(ctx context.Context, area string) (*Summary, error)
}
