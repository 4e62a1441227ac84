package fileservice

// UploadResponse ответ на загрузку файла
type UploadResponse struct {
	URL string `json:"url"`
}

// FileGroupRequest набор URL, объединяемых в группу
type FileGroupRequest struct {
	URLs []string `json:"urls"`
}

// FileGroupResponse ответ на создание группы файлов
type FileGroupResponse struct {
	ID int64 `json:"id"`
}
