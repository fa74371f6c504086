package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeCSV(t *testing.T) {
	at := time.Date(2024, 5, 2, 15, 4, 5, 0, time.FixedZone("PDT", -7*3600))
	notes := "line one\nline \"two\""
	link := "https://youtu.be/abc"

	got := string(EncodeCSV([]*ContentItem{
		{Title: "A, B", Platform: PlatformYouTube, Status: StatusDraft, Notes: &notes, YTLink: &link, CreatedAt: at, UpdatedAt: at},
		{Title: "Bare", Platform: PlatformTikTok, Status: StatusIdea},
	}))

	want := "title,platform,status,notes,tags,yt_link,created_at,updated_at\n" +
		`"A, B","youtube","draft","line one` + "\n" + `line ""two""","","https://youtu.be/abc","2024-05-02T22:04:05Z","2024-05-02T22:04:05Z"` + "\n" +
		`"Bare","tiktok","idea","","","","",""`
	assert.Equal(t, want, got)
}

func TestEncodeCSVHeaderOnly(t *testing.T) {
	assert.Equal(t, "title,platform,status,notes,tags,yt_link,created_at,updated_at", string(EncodeCSV(nil)))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "content-export-2024-01-31.csv", ExportFileName(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC)))
}
