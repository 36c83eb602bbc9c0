package chat

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"acs-toolkit/internal/config"
	"acs-toolkit/internal/s3/s3"
	"acs-toolkit/internal/syncutils"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBucketXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>bucket</Name>
  <KeyCount>1</KeyCount>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>transcripts/t1/1700000000.jsonl</Key></Contents>
</ListBucketResult>`

func TestExportListWaitsForClosers(t *testing.T) {
	prefixes := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case prefixes <- r.URL.Query().Get("prefix"):
		default:
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(listBucketXML))
	}))
	defer srv.Close()

	log := zerolog.Nop()
	archive, err := s3.NewService(&config.Config{S3Storage: config.S3Storage{
		AccessKeyID:      "key",
		SecretAccessKey:  "secret",
		Endpoint:         srv.URL,
		Region:           "us-east-1",
		Bucket:           "bucket",
		FolderTranscript: "transcripts",
	}}, &log)
	require.NoError(t, err)

	syncUtils := syncutils.NewSyncUtils()
	var closed int32
	syncUtils.Wg.Add(1)
	go func() {
		defer syncUtils.Wg.Done()
		<-syncUtils.Ctx.Done()
		time.Sleep(20 * time.Millisecond)
		atomic.StoreInt32(&closed, 1)
	}()

	cmd := &ExportCommand{
		threadScoped: newThreadScoped("chat:export", &log, nil, nil, syncUtils),
		archive:      archive,
	}
	require.NoError(t, cmd.listTranscripts("t1"))
	assert.Equal(t, "transcripts/t1/", <-prefixes)
	assert.EqualValues(t, 1, atomic.LoadInt32(&closed))
}
