package model

import (
	"bytes"
	"encoding/json"
)

// AnalysisRequest is the inbound contract for one analysis run.
type AnalysisRequest struct {
	AppID   string `json:"appId"`
	Country string `json:"country,omitempty"`
	Lang    string `json:"lang,omitempty"`
}

// AppInfo is the catalog metadata snapshot merged into the final report.
type AppInfo struct {
	AppName     string  `json:"appName"`
	AppIcon     string  `json:"appIcon"`
	LastUpdated string  `json:"lastUpdated"`
	Installs    string  `json:"installs"`
	Score       float64 `json:"score"`
	Ratings     int     `json:"ratings"`
	Price       string  `json:"price"`
	Free        bool    `json:"free"`
	OffersIAP   bool    `json:"offersIAP"`
}

// Review is one negative-review excerpt entry in the report.
type Review struct {
	UserName  string `json:"userName"`
	UserImage string `json:"userImage,omitempty"`
	Score     int    `json:"score"`
	Date      string `json:"date"`
	Text      string `json:"text"`
}

// AppIdea is the structured form of a generated product idea.
type AppIdea struct {
	Name             string `json:"name"`
	PainPoint        string `json:"pain_point"`
	Differentiation  string `json:"differentiation"`
	ValueProposition string `json:"value_proposition"`
}

// Idea holds one app_ideas entry. The model returns either a plain string
// or a full AppIdea record; exactly one of the two fields is set.
type Idea struct {
	Text string
	Idea *AppIdea
}

func (i Idea) MarshalJSON() ([]byte, error) {
	if i.Idea != nil {
		return json.Marshal(i.Idea)
	}
	return json.Marshal(i.Text)
}

func (i *Idea) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var idea AppIdea
		if err := json.Unmarshal(trimmed, &idea); err != nil {
			return err
		}
		i.Idea = &idea
		i.Text = ""
		return nil
	}
	i.Idea = nil
	return json.Unmarshal(trimmed, &i.Text)
}

// Insights is the structured result recovered from the model output.
type Insights struct {
	TopComplaints    []string `json:"top_complaints"`
	FeatureRequests  []string `json:"feature_requests"`
	SentimentSummary string   `json:"sentiment_summary"`
	AppIdeas         []Idea   `json:"app_ideas"`
}

// AnalysisReport is the sole externally visible artifact of a pipeline run.
type AnalysisReport struct {
	AppInfo
	Insights
	BadReviews []Review `json:"badReviews"`
}

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
