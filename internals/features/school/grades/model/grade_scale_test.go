package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolku_backend/internals/features/school/grades/model"
)

func TestLetterFor_Boundaries(t *testing.T) {
	cases := map[float64]string{
		100: "A", 90: "A", 89.99: "B", 80: "B", 79.5: "C", 70: "C",
		69.99: "D", 60: "D", 59.99: "F", 0: "F",
	}
	for pct, want := range cases {
		assert.Equal(t, want, model.LetterFor(pct), "pct=%v", pct)
	}
}

func TestGradePoint(t *testing.T) {
	assert.Equal(t, 4.0, model.GradePoint("A"))
	assert.Equal(t, 1.0, model.GradePoint("D"))
	assert.Equal(t, 0.0, model.GradePoint("F"))
	assert.Equal(t, 0.0, model.GradePoint("?"))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 85.0, model.Percentage(17, 20))
	assert.Equal(t, 66.67, model.Percentage(2, 3))
	assert.Zero(t, model.Percentage(5, 0))
}
