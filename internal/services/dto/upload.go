package dto

// UploadResponse - ссылка на сохраненный файл
type UploadResponse struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type MarkAllSeenResponse struct {
	Updated int64 `json:"updated"`
}
