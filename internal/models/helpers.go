package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func GenerateGameID() string {
	return fmt.Sprintf("game_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateTransactionID() string {
	return fmt.Sprintf("tx_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func ValidWager(wager int64) bool {
	return wager >= MinWager && wager <= MaxWager
}

func ValidRiskLevel(risk int) bool {
	return risk >= MinRiskLevel && risk <= MaxRiskLevel
}

func FormatCoins(amount int64) string {
	return fmt.Sprintf("%d coins", amount)
}
