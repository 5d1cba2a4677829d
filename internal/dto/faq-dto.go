package dto

type FaqRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
	Order    int    `json:"order"`
}

type ChatbotRequest struct {
	Query string `json:"query"`
}

type ChatbotResponse struct {
	Message   string `json:"message"`
	IsHelpful bool   `json:"is_helpful"`
}

type VoiceSearchRequest struct {
	Transcript string `json:"transcript"`
}
