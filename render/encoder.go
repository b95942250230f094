package render

import (
	"context"
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"renderbot/config"
)

// FFmpegEncoder concatenates the manifest's video assets into one continuous
// stream, mixes in the narration as the sole audio track and trims the output
// to the shorter of the two (-shortest). Any pre-existing file at the output
// path is overwritten.
type FFmpegEncoder struct{}

func (FFmpegEncoder) Encode(ctx context.Context, listPath, narrationPath, outputPath string) error {
	videos := ffmpeg.Input(listPath, concatInputArgs())
	narration := ffmpeg.Input(narrationPath)

	err := ffmpeg.Output([]*ffmpeg.Stream{videos, narration}, outputPath, outputArgs()).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// concatInputArgs selects the concat demuxer so the list file is read as an
// ordered sequence of video inputs; safe=0 permits absolute paths.
func concatInputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":    "concat",
		"safe": "0",
	}
}

func outputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"c:a":      config.AudioCodec,
		"shortest": "",
	}
}
