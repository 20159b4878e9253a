package models

// Request bodies for the Request Router's ~40 endpoints. Field names
// follow the wire contract in spec §4.6; binding tags enforce the
// caller-fixable "Bad input" class before any selector/driver work runs.

type TabSwitchRequest struct {
	Index int `json:"index"`
}

type GotoRequest struct {
	URL string `json:"url" binding:"required"`
}

type ReloadRequest struct {
	Hard bool `json:"hard,omitempty"`
}

type ScrollIntoViewRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type ScrollToRequest struct {
	Percentage float64 `json:"percentage"`
}

type FillRequest struct {
	Selector string `json:"selector" binding:"required"`
	Text     string `json:"text"`
}

type FillSecretRequest struct {
	Selector string `json:"selector" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

type TypeRequest struct {
	Selector string `json:"selector" binding:"required"`
	Text     string `json:"text"`
}

type PressRequest struct {
	Key string `json:"key" binding:"required"`
}

type ClickRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type FillSearchRequest struct {
	Query    string `json:"query" binding:"required"`
	Selector string `json:"selector,omitempty"`
}

type SelectRequest struct {
	Selector string `json:"selector" binding:"required"`
	Value    string `json:"value"`
}

type SubmitRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type ExistsRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type VisibleRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type CountRequest struct {
	Selector string `json:"selector" binding:"required"`
}

type AttrRequest struct {
	Selector  string `json:"selector" binding:"required"`
	Attribute string `json:"attribute" binding:"required"`
}

type WaitRequest struct {
	Selector string `json:"selector" binding:"required"`
	Timeout  int    `json:"timeout,omitempty"` // seconds; default 30
}

type ExtractTextRequest struct {
	Selector string `json:"selector,omitempty"`
}

type DownloadRequest struct {
	Selector string `json:"selector" binding:"required"`
	Output   string `json:"output,omitempty"`
}

type EvalRequest struct {
	Script string `json:"script" binding:"required"`
}

type AssertRequest struct {
	Script string `json:"script" binding:"required"`
	// Expected is a pointer so that an explicitly supplied empty string
	// is distinguishable from "not supplied" (the latter means "pass iff
	// truthy" rather than "pass iff string-equal to \"\"").
	Expected *string `json:"expected,omitempty"`
	Message  string  `json:"message,omitempty"`
}
