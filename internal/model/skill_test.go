package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasteryLevelForBands(t *testing.T) {
	cases := []struct {
		percentage float64
		want       MasteryLevel
	}{
		{0, MasteryNotAcquired},
		{39.99, MasteryNotAcquired},
		{40, MasteryBeginner},
		{59.99, MasteryBeginner},
		{60, MasteryIntermediate},
		{79.99, MasteryIntermediate},
		{80, MasteryAdvanced},
		{100, MasteryAdvanced},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MasteryLevelFor(c.percentage), "percentage %.2f", c.percentage)
	}
}
