package domain

type SummarizeRequest struct {
	Text           *string `json:"text"`
	TargetLanguage string  `json:"target_language,omitempty"`
	Tonality       string  `json:"tonality,omitempty"`
	Styling        string  `json:"styling,omitempty"`
	Model          string  `json:"model,omitempty"`
}

type SummarizeResponse struct {
	SummarizedText string `json:"summarized_text"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
