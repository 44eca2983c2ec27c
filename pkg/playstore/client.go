// Package playstore fetches app metadata and reviews from the Google Play
// web catalog. Failures are translated into ErrAppNotFound and
// ErrReviewsUnavailable so callers never see raw transport errors.
package playstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

var (
	// ErrAppNotFound means the catalog lookup failed for the given
	// identifier/locale: unknown app, network failure, or a response the
	// client could not interpret.
	ErrAppNotFound = errors.New("app not found")

	// ErrReviewsUnavailable means the catalog was reachable for metadata
	// but the review window could not be fetched.
	ErrReviewsUnavailable = errors.New("reviews unavailable")
)

// ReviewWindow is how many of the newest reviews one fetch requests.
const ReviewWindow = 150

// App is the metadata snapshot for one catalog entry. Optional upstream
// fields carry deterministic defaults: Installs "Unknown", Price "Free",
// Free true, Score/Ratings 0, OffersIAP false.
type App struct {
	Title     string
	Icon      string
	Updated   string // epoch milliseconds as string, or "Unknown"
	Installs  string
	Score     float64
	Ratings   int
	Price     string
	Free      bool
	OffersIAP bool
}

// Review is one raw catalog review.
type Review struct {
	UserName  string
	UserImage string
	Score     int
	Date      string // epoch milliseconds as string
	Text      string
}

// Client talks to the Play web catalog.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient returns a catalog client. A nil httpClient gets a 30s-timeout
// default.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:    httpClient,
		baseURL: "https://play.google.com",
	}
}

// datasetRe pulls the embedded dataset blob for one AF_initDataCallback key
// out of a details-page script element.
var datasetRe = regexp.MustCompile(`(?s)data:(\[.*\]), sideChannel`)

// AppDetails fetches the metadata snapshot for appID in the given locale.
// Every failure mode maps to ErrAppNotFound.
func (c *Client) AppDetails(ctx context.Context, appID, country, lang string) (App, error) {
	u := fmt.Sprintf("%s/store/apps/details?id=%s&hl=%s&gl=%s",
		c.baseURL, url.QueryEscape(appID), url.QueryEscape(lang), url.QueryEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return App{}, fmt.Errorf("%w: %v", ErrAppNotFound, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return App{}, fmt.Errorf("%w: %v", ErrAppNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return App{}, fmt.Errorf("%w: catalog returned status %d", ErrAppNotFound, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return App{}, fmt.Errorf("%w: %v", ErrAppNotFound, err)
	}

	app, err := parseDetails(doc)
	if err != nil {
		return App{}, fmt.Errorf("%w: %v", ErrAppNotFound, err)
	}
	return app, nil
}

func parseDetails(doc *goquery.Document) (App, error) {
	app := App{
		Title:    strings.TrimSpace(doc.Find(`h1[itemprop="name"]`).First().Text()),
		Icon:     doc.Find(`img[itemprop="image"]`).First().AttrOr("src", ""),
		Updated:  "Unknown",
		Installs: "Unknown",
		Price:    "Free",
		Free:     true,
	}
	if app.Title == "" {
		app.Title = doc.Find(`meta[property="og:title"]`).AttrOr("content", "")
	}
	if app.Icon == "" {
		app.Icon = doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
	}
	if app.Title == "" {
		return App{}, errors.New("details page has no app data")
	}

	dataset := findDataset(doc, "ds:5")
	if dataset.Exists() {
		root := dataset.Get("1.2")
		if updated := root.Get("145.0.1.0"); updated.Exists() {
			app.Updated = strconv.FormatInt(updated.Int()*1000, 10)
		}
		if installs := root.Get("13.0"); installs.Exists() {
			app.Installs = installs.String()
		}
		app.Score = root.Get("51.0.1").Float()
		app.Ratings = int(root.Get("51.2.1").Int())
		if price := root.Get("57.0.0.0.0.1.0.2"); price.Exists() && price.String() != "" {
			app.Price = price.String()
			app.Free = root.Get("57.0.0.0.0.1.0.0").Int() == 0
		}
		app.OffersIAP = root.Get("19.0").Exists()
	}
	return app, nil
}

// findDataset locates the AF_initDataCallback blob with the given key in the
// page scripts and returns it parsed.
func findDataset(doc *goquery.Document, key string) gjson.Result {
	var out gjson.Result
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "AF_initDataCallback") || !strings.Contains(text, "'"+key+"'") {
			return true
		}
		m := datasetRe.FindStringSubmatch(text)
		if m == nil {
			return true
		}
		out = gjson.Parse(m[1])
		return false
	})
	return out
}
