package models

// TranscribeRequest accepts video references in any of three lists.
// The unified Videos list takes IDs or URLs; the other two exist for
// callers that keep them separate. Any non-empty combination is valid.
type TranscribeRequest struct {
	Videos         []string `json:"videos,omitempty"`
	VideoIDs       []string `json:"video_ids,omitempty"`
	VideoURLs      []string `json:"video_urls,omitempty"`
	DeepgramAPIKey string   `json:"deepgram_api_key,omitempty"`
}

type TranscriptResult struct {
	VideoID    string `json:"video_id"`
	VideoURL   string `json:"video_url,omitempty"`
	Transcript string `json:"transcript"`
	Status     string `json:"status"`
	FromCache  bool   `json:"from_cache"`
}

type TranscriptError struct {
	VideoID  string `json:"video_id"`
	VideoURL string `json:"video_url,omitempty"`
	Error    string `json:"error"`
	Status   string `json:"status"`
}

// BatchResult aggregates per-item outcomes for one transcription request.
type BatchResult struct {
	Success []TranscriptResult `json:"success"`
	Errors  []TranscriptError  `json:"errors"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}
