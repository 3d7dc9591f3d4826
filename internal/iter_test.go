package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	first := map[string]int32{"A": 1}
	second := map[string]int32{"B": 2, "C": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(first), maps.All(second)))
	assert.Equal(map[string]int32{"A": 1, "B": 2, "C": 3}, all)

	count := 0
	for range IterSeq2Concat(maps.All(second), maps.All(first)) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)

	assert.Empty(maps.Collect(IterSeq2Concat[string, int32]()))
}
