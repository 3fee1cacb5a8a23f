package dto

type EvaluateReq struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type EvaluateResp struct {
	QuestionID string `json:"questionId"`
	Correct    bool   `json:"correct"`
}

type TopicsResp struct {
	Topics []string `json:"topics"`
}
