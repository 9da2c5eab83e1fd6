package models

// Requests for the dashboard HTTP endpoints and CLI commands.

type AnalysisRequest struct {
	Capital    float64 `query:"capital" json:"capital" validate:"gte=0"`
	NewsPolicy string  `query:"news_policy" json:"news_policy" default:"config" validate:"oneof=config open closed"`
}

type LevelsRequest struct {
	Price float64 `query:"price" json:"price" validate:"gt=0"`
	Vol   float64 `query:"vol" json:"vol" validate:"gt=0"`
	Tier  string  `query:"tier" json:"tier" default:"narrow" validate:"oneof=narrow wide"`
}
