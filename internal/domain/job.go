package domain

// TranslationJob is the unit of work submitted to the async queue.
type TranslationJob struct {
	Doctype string `json:"doctype"`
	Docname string `json:"docname"`
}
