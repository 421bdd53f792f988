package redis

import (
	"reflect"
	"testing"

	"github.com/notes-bin/artbed/internal/model"
)

func TestSortTagCountsDeterministicTies(t *testing.T) {
	// 计数并列时按标签名升序,保证多次刷新结果稳定
	inputs := [][]model.TagCount{
		{{Tag: "d", Count: 1}, {Tag: "b", Count: 5}, {Tag: "a", Count: 5}, {Tag: "c", Count: 3}},
		{{Tag: "a", Count: 5}, {Tag: "c", Count: 3}, {Tag: "d", Count: 1}, {Tag: "b", Count: 5}},
	}
	want := []model.TagCount{
		{Tag: "a", Count: 5}, {Tag: "b", Count: 5}, {Tag: "c", Count: 3}, {Tag: "d", Count: 1},
	}
	for i, counts := range inputs {
		sortTagCounts(counts)
		if !reflect.DeepEqual(counts, want) {
			t.Errorf("input %d: got %v", i, counts)
		}
	}
}
