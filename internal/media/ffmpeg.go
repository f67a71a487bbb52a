package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Transcoder normalizes uploaded video for web playback.
type Transcoder interface {
	Transcode(ctx context.Context, src []byte) ([]byte, error)
}

// FFmpeg shells out to an ffmpeg binary over stdin/stdout.
type FFmpeg struct {
	path string
}

func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path}
}

// Transcode re-encodes the input to fragmented H.264/AAC MP4.
func (f *FFmpeg) Transcode(ctx context.Context, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, f.path,
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "fast",
		"-c:a", "aac",
		"-movflags", "frag_keyframe+empty_moov",
		"-f", "mp4",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(src)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}
	return out.Bytes(), nil
}
