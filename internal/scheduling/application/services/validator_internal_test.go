package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Boundaries(t *testing.T) {
	assert.Equal(t, QualityPerfect, classify(0))
	assert.Equal(t, QualityExcellent, classify(499))
	assert.Equal(t, QualityGood, classify(500))
	assert.Equal(t, QualityGood, classify(1500))
	assert.Equal(t, QualityNeedsReview, classify(1500.01))
}
