package scrapeprovider

import "time"

// ScrapeRequest запрос к API скрейпинг-провайдера.
type ScrapeRequest struct {
	Platform string `json:"platform"`
	Query    string `json:"query"`
	Limit    int    `json:"limit"`
}

// ScrapeResponse ответ провайдера со списком найденных трендов.
type ScrapeResponse struct {
	Items     []TrendItem `json:"items"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// TrendItem единица трендовых данных в ответе провайдера.
type TrendItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Views int64  `json:"views"`
}
