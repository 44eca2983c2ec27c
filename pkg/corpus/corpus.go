// Package corpus shapes raw reviews into the flat document sent to the
// generation step.
package corpus

import (
	"strings"

	"github.com/ahmadsufyan455/star-one/pkg/playstore"
)

// Separator joins review bodies. It is chosen not to collide with normal
// review content so the model sees unambiguous boundaries.
const Separator = "\n\n---\n\n"

// Corpus is the analysis-ready document. Count is the number of reviews that
// qualified; a zero Count means the pipeline must not proceed to generation.
type Corpus struct {
	Text  string
	Count int
}

// Build filters reviews to score <= 3 with non-empty trimmed text and joins
// the surviving bodies in their original order.
func Build(reviews []playstore.Review) Corpus {
	var bodies []string
	for _, r := range reviews {
		if r.Score > 3 {
			continue
		}
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		bodies = append(bodies, text)
	}
	return Corpus{
		Text:  strings.Join(bodies, Separator),
		Count: len(bodies),
	}
}
