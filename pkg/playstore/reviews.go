package playstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// sortNewest is the catalog's newest-first review ordering.
const sortNewest = 2

// reviewsRPC is the batchexecute RPC id for the review listing.
const reviewsRPC = "UsvDTd"

// NegativeReviews fetches the newest ReviewWindow reviews for appID and
// filters them to score <= 3 with non-empty trimmed text, preserving the
// newest-first order. Every failure mode maps to ErrReviewsUnavailable.
func (c *Client) NegativeReviews(ctx context.Context, appID, country, lang string) ([]Review, error) {
	raw, err := c.fetchReviewWindow(ctx, appID, country, lang)
	if err != nil {
		return nil, err
	}
	return FilterNegative(raw), nil
}

// FilterNegative keeps reviews with score <= 3 and non-empty trimmed text,
// in their original order.
func FilterNegative(reviews []Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Score <= 3 && strings.TrimSpace(r.Text) != "" {
			out = append(out, r)
		}
	}
	return out
}

func (c *Client) fetchReviewWindow(ctx context.Context, appID, country, lang string) ([]Review, error) {
	endpoint := fmt.Sprintf("%s/_/PlayStoreUi/data/batchexecute?hl=%s&gl=%s",
		c.baseURL, url.QueryEscape(lang), url.QueryEscape(country))

	payload := fmt.Sprintf(`[null,null,[2,%d,[%d,null,null],null,[]],[%q,7]]`,
		sortNewest, ReviewWindow, appID)
	envelope := fmt.Sprintf(`[[["%s",%s,null,"generic"]]]`, reviewsRPC, strconv.Quote(payload))
	form := url.Values{"f.req": {envelope}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewsUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog returned status %d", ErrReviewsUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewsUnavailable, err)
	}

	reviews, err := parseReviewResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewsUnavailable, err)
	}
	return reviews, nil
}

// parseReviewResponse unwraps the batchexecute envelope: the body starts
// with an anti-hijacking prefix, the outer array's first entry carries the
// inner payload as a JSON string, and the payload's first element is the
// review list.
func parseReviewResponse(body []byte) ([]Review, error) {
	text := strings.TrimPrefix(strings.TrimSpace(string(body)), ")]}'")

	inner := gjson.Parse(text).Get("0.2")
	if !inner.Exists() {
		return nil, fmt.Errorf("unexpected batchexecute envelope")
	}

	list := gjson.Parse(inner.String()).Get("0")
	if !list.Exists() {
		// An app with no reviews yields an empty payload.
		return nil, nil
	}

	var reviews []Review
	list.ForEach(func(_, entry gjson.Result) bool {
		r := Review{
			UserName:  entry.Get("1.0").String(),
			UserImage: entry.Get("1.1.3.2").String(),
			Score:     int(entry.Get("2").Int()),
			Text:      entry.Get("4").String(),
		}
		if ts := entry.Get("5.0"); ts.Exists() {
			r.Date = strconv.FormatInt(ts.Int()*1000, 10)
		}
		reviews = append(reviews, r)
		return true
	})
	return reviews, nil
}
