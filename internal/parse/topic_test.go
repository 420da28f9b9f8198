package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"showerroom-status-backend/internal/model"
)

func TestFloor(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int
		expectErr bool
	}{
		{name: "Plain number", raw: "3", expected: 3},
		{name: "F suffix", raw: "12F", expected: 12},
		{name: "Lower case suffix", raw: "2f", expected: 2},
		{name: "Kanji suffix", raw: "4階", expected: 4},
		{name: "Surrounding spaces", raw: "  5 F ", expected: 5},
		{name: "Ground floor", raw: "0", expected: 0},
		{name: "Negative number", raw: "-1", expected: -1},
		{name: "Basement", raw: "B2", expected: -2},
		{name: "Basement with suffix", raw: "b1F", expected: -1},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Letters", raw: "roof", expectErr: true},
		{name: "Basement zero", raw: "B0", expectErr: true},
		{name: "Trailing garbage", raw: "3F-1", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			floor, err := Floor(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, floor)
			}
		})
	}
}

func TestFormatTopic(t *testing.T) {
	loc := model.Location{Gender: "female", Building: "C", Floor: 1}
	assert.Equal(t, "female/C/1", FormatTopic(loc))

	parsed, err := ParseTopic(FormatTopic(loc))
	assert.NoError(t, err)
	assert.Equal(t, loc, parsed)
}

func TestParseTopic(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  model.Location
		expectErr bool
	}{
		{name: "Standard", raw: "male/A/3", expected: model.Location{Gender: "male", Building: "A", Floor: 3}},
		{name: "Floor label", raw: "male/East Hall/2F", expected: model.Location{Gender: "male", Building: "East Hall", Floor: 2}},
		{name: "Basement", raw: "female/B/B1", expected: model.Location{Gender: "female", Building: "B", Floor: -1}},
		{name: "Missing floor", raw: "male/A", expectErr: true},
		{name: "Too many parts", raw: "male/A/3/4", expectErr: true},
		{name: "Empty gender", raw: "/A/3", expectErr: true},
		{name: "Bad floor", raw: "male/A/top", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			loc, err := ParseTopic(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, loc)
			}
		})
	}
}

func TestFloorLabel(t *testing.T) {
	for floor, label := range map[int]string{3: "3F", 0: "0F", -1: "B1", -2: "B2"} {
		assert.Equal(t, label, FloorLabel(floor))

		back, err := Floor(label)
		assert.NoError(t, err)
		assert.Equal(t, floor, back)
	}
}
