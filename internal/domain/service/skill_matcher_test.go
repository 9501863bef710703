package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommonSkills(t *testing.T) {
	tests := []struct {
		name  string
		listA []string
		listB []string
		want  []string
	}{
		{"case insensitive", []string{"Python", "Go"}, []string{"python"}, []string{"Python"}},
		{"keeps order of first list", []string{"Rust", "go", "SQL"}, []string{"sql", "GO"}, []string{"go", "SQL"}},
		{"keeps duplicates", []string{"Go", "go", "Java"}, []string{"GO"}, []string{"Go", "go"}},
		{"no overlap", []string{"JS"}, []string{"Go"}, []string{}},
		{"empty first list", nil, []string{"Go"}, []string{}},
		{"empty second list", []string{"Go"}, []string{}, []string{}},
		{"no trimming", []string{"Go "}, []string{"go"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CommonSkills(tt.listA, tt.listB))
		})
	}
}

func TestCommonSkillsDoesNotMutateInputs(t *testing.T) {
	listA := []string{"Python", "Go"}
	listB := []string{"GO"}

	CommonSkills(listA, listB)

	assert.Equal(t, []string{"Python", "Go"}, listA)
	assert.Equal(t, []string{"GO"}, listB)
}
