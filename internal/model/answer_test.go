package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  AnswerValue
		want   float64
		wantOK bool
	}{
		{"number", NumberValue(3.5), 3.5, true},
		{"numeric text", TextValue("42"), 42, true},
		{"padded numeric text", TextValue(" 7 "), 7, true},
		{"plain text", TextValue("downtown"), 0, false},
		{"list", ListValue([]string{"1", "2"}), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnswerValueString(t *testing.T) {
	assert.Equal(t, "Y", TextValue("Y").String())
	assert.Equal(t, "12", NumberValue(12).String())
	assert.Equal(t, "3.5", NumberValue(3.5).String())
	assert.Equal(t, "2,1", ListValue([]string{"2", "1"}).String())
}

func TestAnswerValueTallyKey(t *testing.T) {
	assert.Equal(t, "option:Y", TextValue("Y").TallyKey())
	assert.Equal(t, "option:12", NumberValue(12).TallyKey())

	// Combo keys are canonical: pick order never splits a tally
	assert.Equal(t, "combo:1,2,9", ListValue([]string{"9", "2", "1"}).TallyKey())
	assert.Equal(t, ListValue([]string{"1", "2"}).TallyKey(), ListValue([]string{"2", "1"}).TallyKey())
}
