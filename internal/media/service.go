package media

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/domain"
)

// Service runs an upload through the processing pipeline: content-hash
// id, optional analysis, optional transcode, then object storage.
// Analyzer and Transcoder are optional; when they fail or are absent
// the original bytes are stored unchanged.
type Service struct {
	Storage    ObjectStorage
	Transcoder Transcoder
	Analyzer   Analyzer
}

func NewService(storage ObjectStorage, transcoder Transcoder, analyzer Analyzer) *Service {
	return &Service{Storage: storage, Transcoder: transcoder, Analyzer: analyzer}
}

// Process stores an upload and returns its media id (MD5 of content).
// Uploading identical bytes twice yields the same id, which the moment
// store then treats as an idempotent append.
func (s *Service) Process(ctx context.Context, r io.Reader, contentType string) (domain.MediaID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	sum := md5.Sum(data)
	id := domain.MediaID(hex.EncodeToString(sum[:]))

	if s.Analyzer != nil {
		analysis, err := s.Analyzer.Analyze(ctx, data, contentType)
		if err != nil {
			log.Warn().Err(err).Str("module", "media.service").Str("media", string(id)).Msg("analysis skipped")
		} else if analysis != nil {
			log.Info().Str("module", "media.service").Str("media", string(id)).
				Strs("tags", analysis.Tags).Bool("nsfw", analysis.NSFW).Msg("analyzed")
		}
	}

	if s.Transcoder != nil && strings.HasPrefix(contentType, "video/") {
		converted, err := s.Transcoder.Transcode(ctx, data)
		if err != nil {
			log.Warn().Err(err).Str("module", "media.service").Str("media", string(id)).Msg("transcode skipped")
		} else {
			data = converted
		}
	}

	if err := s.Storage.Put(ctx, id, data); err != nil {
		return "", err
	}
	return id, nil
}
