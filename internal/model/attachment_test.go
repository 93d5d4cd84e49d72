package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAttachmentIsImage(t *testing.T) {
	cases := []struct {
		name string
		att  Attachment
		want bool
	}{
		{"mime image", Attachment{MimeType: "image/png"}, true},
		{"mime image uppercase", Attachment{MimeType: "IMAGE/JPEG"}, true},
		{"mime non-image", Attachment{MimeType: "application/pdf", FileName: "report.pdf"}, false},
		{"no mime, image extension", Attachment{FileName: "photo.HEIC"}, true},
		{"no mime, other extension", Attachment{FileName: "notes.txt"}, false},
		{"nothing known", Attachment{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.att.IsImage())
		})
	}
}

func TestAttachmentEffectiveTime(t *testing.T) {
	msgTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uploadTime := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("upload time wins when present", func(t *testing.T) {
		att := Attachment{UploadedAt: &uploadTime}
		assert.Equal(t, uploadTime, att.EffectiveTime(msgTime))
	})

	t.Run("falls back to message time", func(t *testing.T) {
		att := Attachment{}
		assert.Equal(t, msgTime, att.EffectiveTime(msgTime))

		var zero time.Time
		att = Attachment{UploadedAt: &zero}
		assert.Equal(t, msgTime, att.EffectiveTime(msgTime))
	})
}
