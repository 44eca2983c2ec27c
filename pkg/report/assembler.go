// Package report merges catalog metadata, extracted insights, and the
// negative-review excerpt into the final response contract.
package report

import (
	"time"

	"github.com/ahmadsufyan455/star-one/pkg/model"
	"github.com/ahmadsufyan455/star-one/pkg/playstore"
	"github.com/ahmadsufyan455/star-one/pkg/reltime"
)

// ExcerptLimit bounds how many negative reviews the report carries.
const ExcerptLimit = 10

// Assemble is a pure merge: no I/O and no failure modes beyond the defensive
// defaults already guaranteed upstream. The excerpt keeps its newest-first
// order and is truncated to ExcerptLimit entries.
func Assemble(app playstore.App, insights *model.Insights, negatives []playstore.Review, now time.Time) *model.AnalysisReport {
	out := &model.AnalysisReport{
		AppInfo: model.AppInfo{
			AppName:     app.Title,
			AppIcon:     app.Icon,
			LastUpdated: reltime.Format(app.Updated, now),
			Installs:    app.Installs,
			Score:       app.Score,
			Ratings:     app.Ratings,
			Price:       app.Price,
			Free:        app.Free,
			OffersIAP:   app.OffersIAP,
		},
		Insights:   *insights,
		BadReviews: make([]model.Review, 0, ExcerptLimit),
	}

	for _, r := range negatives {
		if len(out.BadReviews) == ExcerptLimit {
			break
		}
		name := r.UserName
		if name == "" {
			name = "Anonymous"
		}
		out.BadReviews = append(out.BadReviews, model.Review{
			UserName:  name,
			UserImage: r.UserImage,
			Score:     r.Score,
			Date:      reltime.Format(r.Date, now),
			Text:      r.Text,
		})
	}
	return out
}
