package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ModelInfo describes one selectable model variant for the dashboard's
// comparison panel.
type ModelInfo struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	ExpectedConfidence string `json:"expected_confidence"`
	Stability          string `json:"stability"`
}

var modelCatalog = []ModelInfo{
	{
		Name:               "good",
		Description:        "Trained with high-quality data; should provide accurate predictions.",
		ExpectedConfidence: "high (>75%)",
		Stability:          "stable performance",
	},
	{
		Name:               "bad",
		Description:        "Trained with lower-quality data; may provide less accurate predictions.",
		ExpectedConfidence: "low (<60%)",
		Stability:          "may degrade faster",
	},
}

func GetModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": modelCatalog})
}
