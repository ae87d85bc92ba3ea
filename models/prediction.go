package models

// PredictionRequest is the feature payload forwarded to the serving API.
// Ranges are enforced at the input boundary via binding tags; the classifier
// never re-validates them.
type PredictionRequest struct {
	ModelType     string `json:"model_type" binding:"required,oneof=good bad"`
	TrafficVolume int    `json:"traffic_volume" binding:"min=0,max=200"`
	TimeOfDay     int    `json:"time_of_day" binding:"min=0,max=23"`
	DayOfWeek     int    `json:"day_of_week" binding:"min=0,max=6"`
	WeatherRisk   int    `json:"weather_risk" binding:"min=0,max=2"`
	RoadRisk      int    `json:"road_risk" binding:"min=0,max=2"`
}

// PredictionResult is one validated scoring response. The telemetry client
// guarantees Confidence was present on the wire before handing this out.
type PredictionResult struct {
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Latency    float64 `json:"latency"`
	ModelType  string  `json:"model_type"`
}
