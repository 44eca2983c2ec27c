package prompts

import "fmt"

// BuildReviewInsightPrompt returns the fixed instruction template for the
// review-insight extraction. The template requests an exact JSON shape and
// bounds output size so results stay scannable; prompt construction is
// deterministic given the corpus text.
func BuildReviewInsightPrompt(corpusText string) string {
	return fmt.Sprintf(`You are a product researcher analyzing app reviews to identify feature gaps and opportunities for indie hackers and competitors.

Analyze these negative reviews from the Google Play Store and return a JSON object with the following structure:
{
  "top_complaints": ["complaint 1", "complaint 2", "complaint 3", ...],
  "feature_requests": ["feature 1", "feature 2", "feature 3", ...],
  "sentiment_summary": "one sentence overview of the overall sentiment",
  "app_ideas": [
    {
      "name": "App Name",
      "pain_point": "Specific user pain point this solves",
      "differentiation": "How it differs from the analyzed app",
      "value_proposition": "Clear value for users"
    },
    ...
  ]
}

Focus on:
- Missing features users explicitly request
- Functional gaps (not just bug reports)
- Patterns across multiple reviews
- Actionable insights that competitors could capitalize on

For app_ideas, suggest 3-5 specific app concepts that could solve the identified problems. Each idea should:
- Target a specific pain point from the complaints/requests
- Be feasible for an indie hacker to build
- Have clear differentiation from the analyzed app
- Include a brief value proposition (1-2 sentences)

Keep each item concise (1-2 sentences max). Limit to top 5-7 items per category.

Reviews to analyze:
%s`, corpusText)
}
