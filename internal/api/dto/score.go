package dto

type ScoreResponse struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type UpsertScoreRequest struct {
	Name  string `json:"name" validate:"required"`
	Score Number `json:"score"`
}

type UpsertScoreResponse struct {
	Success bool `json:"success"`
	// 1-based leaderboard position after the update.
	Place int `json:"place"`
}
