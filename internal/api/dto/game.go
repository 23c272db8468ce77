package dto

type RoundResponse struct {
	Index int     `json:"index"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Image string  `json:"image"`
}

type GuessRequest struct {
	Location *int   `json:"location" validate:"required"`
	Lat      Number `json:"lat"`
	Lng      Number `json:"lng"`
}

type GuessResponse struct {
	Success        bool             `json:"success"`
	DistanceMeters float64          `json:"distance_m"`
	Points         int              `json:"points"`
	Territory      *int             `json:"territory"`
	Actual         LocationResponse `json:"actual"`
}
