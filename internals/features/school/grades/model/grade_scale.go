package model

import "math"

// LetterFor memetakan persentase 0-100 ke huruf: A ≥90, B ≥80, C ≥70, D ≥60, selain itu F.
func LetterFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// GradePoint: bobot skala 4.0 per huruf.
func GradePoint(letter string) float64 {
	switch letter {
	case "A":
		return 4
	case "B":
		return 3
	case "C":
		return 2
	case "D":
		return 1
	default:
		return 0
	}
}

// Percentage = score/maxScore*100, dibulatkan 2 desimal.
func Percentage(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return Round2(score / maxScore * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
