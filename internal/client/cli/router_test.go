package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw  string
		want Page
	}{
		{"", Page{Kind: PageUpload}},
		{"/", Page{Kind: PageUpload}},
		{"/upload", Page{Kind: PageUpload}},
		{"/pickup", Page{Kind: PagePickup}},
		{"https://drop.example/pickup?code=1#top", Page{Kind: PagePickup}},
		{"/manage/1f0c-22", Page{Kind: PageManage, FileGroupID: "1f0c-22"}},
		{"/manage/abc/extra", Page{Kind: PageManage, FileGroupID: "abc"}},
		{"http://untrusted.example/manage/g%201", Page{Kind: PageManage, FileGroupID: "g 1"}},
		{"/app/manage/g1", Page{Kind: PageManage, FileGroupID: "g1"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePage(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePage_Errors(t *testing.T) {
	for _, raw := range []string{"/manage/", "/settings", "/manage/%zz"} {
		_, err := ParsePage(raw)
		assert.ErrorIs(t, err, ErrUnknownPage, raw)
	}
}

func TestPage_PathRoundTrips(t *testing.T) {
	for _, p := range []Page{
		{Kind: PageUpload},
		{Kind: PagePickup},
		{Kind: PageManage, FileGroupID: "g 1/2"},
	} {
		got, err := ParsePage(p.Path())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}
