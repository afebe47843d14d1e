package api

// Book is a user owned container for chapters.
type Book struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Language  string `json:"language"`
	CreatedAt string `json:"created_at,omitempty"`
}

type BookCreate struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Language string `json:"language"`
}

// Chapter is a unit of foreign language text with extracted vocabulary.
type Chapter struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"user_id,omitempty"`
	Title           string `json:"title"`
	ChapterNumber   int    `json:"chapter_number"`
	Text            string `json:"text,omitempty"`
	TargetLanguage  string `json:"target_language"`
	Level           string `json:"level"`
	TranslationMode string `json:"translation_mode"`
	CreatedAt       string `json:"created_at,omitempty"`
}

type ChapterCreate struct {
	Title           string `json:"title"`
	ChapterNumber   int    `json:"chapter_number"`
	Text            string `json:"text"`
	TargetLanguage  string `json:"target_language"`
	WordsToExtract  int    `json:"words_to_extract"`
	Level           string `json:"level"`
	TranslationMode string `json:"translation_mode"`
}

// Word is a candidate vocabulary entry suggested by extraction.
type Word struct {
	Word     string `json:"word"`
	BaseForm string `json:"base_form"`
	Output   string `json:"output"`
}

// ChapterDraft is what server returns on chapter creation: provisional chapter
// and words it extracted, waiting for confirmation.
type ChapterDraft struct {
	Chapter Chapter `json:"chapter"`
	Words   []Word  `json:"words"`
}

type confirmRequest struct {
	Words []Word `json:"words"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
}
