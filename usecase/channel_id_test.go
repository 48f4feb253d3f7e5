package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

func TestExtractChannelID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "raw id", input: testChannelID, want: testChannelID, wantOK: true},
		{name: "raw id with spaces", input: "  " + testChannelID + "\n", want: testChannelID, wantOK: true},
		{name: "channel url", input: "https://www.youtube.com/channel/" + testChannelID, want: testChannelID, wantOK: true},
		{name: "channel url with suffix", input: "https://youtube.com/channel/" + testChannelID + "/videos?view=0", want: testChannelID, wantOK: true},
		{name: "c url with id", input: "https://www.youtube.com/c/" + testChannelID, want: testChannelID, wantOK: true},
		{name: "at url with id", input: "https://www.youtube.com/@" + testChannelID, want: testChannelID, wantOK: true},
		{name: "user url with id", input: "youtube.com/user/" + testChannelID, want: testChannelID, wantOK: true},
		{name: "custom name", input: "https://www.youtube.com/c/GoogleDevelopers", wantOK: false},
		{name: "handle", input: "@gopher", wantOK: false},
		{name: "handle url", input: "https://www.youtube.com/@gopher", wantOK: false},
		{name: "too short", input: "UCabc", wantOK: false},
		{name: "too long", input: testChannelID + "x", wantOK: false},
		{name: "empty", input: "   ", wantOK: false},
		{name: "other site", input: "https://vimeo.com/channel/" + testChannelID, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractChannelID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHandle(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "@gopher", want: "@gopher", wantOK: true},
		{input: " @go_pher-1 ", want: "@go_pher-1", wantOK: true},
		{input: "https://www.youtube.com/@gopher", want: "@gopher", wantOK: true},
		{input: "https://www.youtube.com/@gopher/videos", want: "@gopher", wantOK: true},
		{input: "gopher", wantOK: false},
		{input: "https://www.youtube.com/c/gopher", wantOK: false},
		{input: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ExtractHandle(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
