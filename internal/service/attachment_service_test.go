package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachmentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("empty payload is a no-op", func(t *testing.T) {
		objects := newFakeObjectStore()
		svc := NewAttachmentService(objects)

		att, err := svc.Store(ctx, model.AttachmentUpload{Content: "   "}, "dm:test")
		require.NoError(t, err)
		assert.Nil(t, att)
		assert.Empty(t, objects.objects)
	})

	t.Run("stores decoded bytes under the scope", func(t *testing.T) {
		objects := newFakeObjectStore()
		svc := NewAttachmentService(objects)

		att, err := svc.Store(ctx, model.AttachmentUpload{
			Content:  base64.StdEncoding.EncodeToString([]byte("hello")),
			FileName: "note.txt",
			MimeType: "text/plain",
		}, "dm:test")
		require.NoError(t, err)
		require.NotNil(t, att)

		assert.True(t, strings.HasPrefix(att.ObjectKey, "dm:test/"))
		assert.True(t, strings.HasSuffix(att.ObjectKey, ".txt"))
		assert.Equal(t, "https://cdn.test/"+att.ObjectKey, att.URL)
		assert.NotNil(t, att.UploadedAt)
		assert.Equal(t, []byte("hello"), objects.objects[att.ObjectKey])
	})

	t.Run("data-URI prefix is tolerated", func(t *testing.T) {
		svc := NewAttachmentService(newFakeObjectStore())

		att, err := svc.Store(ctx, model.AttachmentUpload{
			Content:  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png")),
			FileName: "a.png",
			MimeType: "image/png",
		}, "dm:test")
		require.NoError(t, err)
		require.NotNil(t, att)
	})

	t.Run("extension falls back to the mime type", func(t *testing.T) {
		svc := NewAttachmentService(newFakeObjectStore())

		att, err := svc.Store(ctx, model.AttachmentUpload{
			Content:  base64.StdEncoding.EncodeToString([]byte("jpeg")),
			FileName: "photo",
			MimeType: "image/jpeg",
		}, "grp:test")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(att.ObjectKey, ".jpg"))
	})

	t.Run("invalid base64 is rejected", func(t *testing.T) {
		svc := NewAttachmentService(newFakeObjectStore())

		_, err := svc.Store(ctx, model.AttachmentUpload{Content: "!!not-base64!!"}, "dm:test")
		assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
	})

	t.Run("identical uploads get distinct objects", func(t *testing.T) {
		objects := newFakeObjectStore()
		svc := NewAttachmentService(objects)

		upload := model.AttachmentUpload{
			Content:  base64.StdEncoding.EncodeToString([]byte("same")),
			FileName: "same.png",
			MimeType: "image/png",
		}
		first, err := svc.Store(ctx, upload, "dm:test")
		require.NoError(t, err)
		second, err := svc.Store(ctx, upload, "dm:test")
		require.NoError(t, err)

		assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
		assert.Len(t, objects.objects, 2)
	})
}

func TestAttachmentRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing object key is a no-op", func(t *testing.T) {
		svc := NewAttachmentService(newFakeObjectStore())
		assert.NoError(t, svc.Remove(ctx, model.Attachment{}))
	})

	t.Run("delete failure is reported", func(t *testing.T) {
		objects := newFakeObjectStore()
		objects.failKeys["dm:test/x.png"] = true
		svc := NewAttachmentService(objects)

		err := svc.Remove(ctx, model.Attachment{ObjectKey: "dm:test/x.png"})
		assert.Error(t, err)
	})
}
