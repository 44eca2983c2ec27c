// Package pipeline sequences one analysis request: quota check, catalog
// fetches, corpus build, insight extraction, and report assembly. It is the
// only component exposed to the HTTP boundary.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ahmadsufyan455/star-one/pkg/analyzer"
	"github.com/ahmadsufyan455/star-one/pkg/corpus"
	"github.com/ahmadsufyan455/star-one/pkg/model"
	"github.com/ahmadsufyan455/star-one/pkg/playstore"
	"github.com/ahmadsufyan455/star-one/pkg/quota"
	"github.com/ahmadsufyan455/star-one/pkg/report"
)

const (
	DefaultCountry = "us"
	DefaultLang    = "en"

	// AnonymousIdentity is the quota bucket for requests without a verified
	// identity. It is distinct from every real identity.
	AnonymousIdentity = "anonymous"
)

// Catalog is the app-store collaborator boundary.
type Catalog interface {
	AppDetails(ctx context.Context, appID, country, lang string) (playstore.App, error)
	NegativeReviews(ctx context.Context, appID, country, lang string) ([]playstore.Review, error)
}

// Extractor is the insight-extraction collaborator boundary.
type Extractor interface {
	Extract(ctx context.Context, corpusText string) (*model.Insights, error)
}

type Pipeline struct {
	catalog   Catalog
	extractor Extractor
	quota     *quota.Tracker
	log       *zap.Logger
	now       func() time.Time
}

func New(catalog Catalog, extractor Extractor, tracker *quota.Tracker, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		catalog:   catalog,
		extractor: extractor,
		quota:     tracker,
		log:       log,
		now:       time.Now,
	}
}

// Analyze runs the full pipeline for one request. Failures come back as
// *Error carrying exactly one taxonomy Kind; usage is recorded only after
// every upstream step has succeeded, so no quota rollback is ever needed.
func (p *Pipeline) Analyze(ctx context.Context, identity string, req model.AnalysisRequest) (*model.AnalysisReport, error) {
	appID := strings.TrimSpace(req.AppID)
	if appID == "" {
		return nil, fail(KindInvalidRequest, "appId is required and must be a non-empty string", nil)
	}
	country := req.Country
	if country == "" {
		country = DefaultCountry
	}
	lang := req.Lang
	if lang == "" {
		lang = DefaultLang
	}
	if identity == "" {
		identity = AnonymousIdentity
	}

	if status := p.quota.Check(identity); !status.Allowed {
		return nil, fail(KindQuotaExceeded,
			fmt.Sprintf("analysis limit of %d per window reached, try again later", status.Limit), nil)
	}

	// Metadata and reviews are independent; fetch them concurrently and
	// wait for both before building the corpus.
	var (
		app       playstore.App
		negatives []playstore.Review
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		app, err = p.catalog.AppDetails(gctx, appID, country, lang)
		if err != nil {
			return fail(KindAppNotFound,
				fmt.Sprintf("could not find app with ID %q, verify the App ID is correct", appID), err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		negatives, err = p.catalog.NegativeReviews(gctx, appID, country, lang)
		if err != nil {
			return fail(KindReviewsUnavailable, "could not retrieve reviews from Google Play", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := corpus.Build(negatives)
	if c.Count == 0 {
		return nil, fail(KindInsufficientData,
			"no negative reviews found for this app, try an app with more user feedback", nil)
	}

	insights, err := p.extractor.Extract(ctx, c.Text)
	if err != nil {
		// Unreachable service and unparseable output fold into one
		// external category; keep them apart in the logs.
		p.log.Warn("insight extraction failed",
			zap.String("app_id", appID),
			zap.Bool("parse_failure", errors.Is(err, analyzer.ErrParse)),
			zap.Error(err))
		return nil, fail(KindGenerationFailed, "could not analyze reviews, please try again", err)
	}

	p.quota.Record(identity)

	rep := report.Assemble(app, insights, negatives, p.now())
	p.log.Info("analysis complete",
		zap.String("app_id", appID),
		zap.Int("negative_reviews", c.Count),
		zap.Int("complaints", len(rep.TopComplaints)))
	return rep, nil
}
